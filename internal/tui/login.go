package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatroom/internal/gateway"
	"chatroom/internal/login"
)

type loginResultMsg struct {
	result   login.Result
	register bool
}

// loginModel is the auth screen: email, password, login and register.
type loginModel struct {
	ctx  context.Context
	form *login.Form

	email    textinput.Model
	password textinput.Model
	focus    int
	spinner  spinner.Model
	notice   *login.Notice
	width    int
}

func newLoginModel(ctx context.Context, auth gateway.Auth) *loginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Prompt = "  "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password (minimal 6 karakter)"
	password.Prompt = "  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = FocusedStyle

	return &loginModel{
		ctx:      ctx,
		form:     login.NewForm(auth),
		email:    email,
		password: password,
		spinner:  sp,
		width:    DefaultWidth,
	}
}

func (m *loginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *loginModel) Update(msg tea.Msg) (*loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		if msg.result.Notice != nil {
			m.notice = msg.result.Notice
			m.password.SetValue(m.form.Password())
		}
		return m, nil

	case tea.KeyMsg:
		if m.notice != nil {
			if key.Matches(msg, loginKeys.Dismiss, loginKeys.Login) {
				m.notice = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, loginKeys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, loginKeys.Prev):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, loginKeys.Login):
			return m, m.submit(false)
		case key.Matches(msg, loginKeys.Register):
			return m, m.submit(true)
		}
	}

	return m, m.updateInputs(msg)
}

func (m *loginModel) setFocus(i int) tea.Cmd {
	m.focus = i % 2
	if m.focus == 0 {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

// updateInputs forwards msg to the focused field and copies edits into the form.
func (m *loginModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == 0 {
		before := m.email.Value()
		m.email, cmd = m.email.Update(msg)
		if v := m.email.Value(); v != before {
			m.form.SetEmail(v)
		}
		return cmd
	}

	before := m.password.Value()
	m.password, cmd = m.password.Update(msg)
	if v := m.password.Value(); v != before {
		m.form.SetPassword(v)
	}
	return cmd
}

func (m *loginModel) submit(register bool) tea.Cmd {
	if m.form.Loading() {
		return nil
	}
	form, ctx := m.form, m.ctx
	return func() tea.Msg {
		if register {
			return loginResultMsg{result: form.SignUp(ctx), register: true}
		}
		return loginResultMsg{result: form.SignIn(ctx)}
	}
}

func (m *loginModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Welcome"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Sign in or create an account"))
	b.WriteString("\n\n")

	b.WriteString(InputStyle.Width(m.fieldWidth()).Render(m.email.View()))
	b.WriteString("\n")
	b.WriteString(InputStyle.Width(m.fieldWidth()).Render(m.password.View()))
	b.WriteString("\n")

	if msg := m.form.Error(); msg != "" {
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.form.Loading() && m.form.Registering():
		b.WriteString(m.spinner.View() + " Register")
	case m.form.Loading():
		b.WriteString(m.spinner.View() + " Login")
	default:
		b.WriteString(FocusedStyle.Render("[ Login ]") + "  " + SubtitleStyle.Render("[ Register ]"))
	}
	b.WriteString("\n\n")

	if m.notice != nil {
		b.WriteString(NoticeStyle.Render(TitleStyle.Render(m.notice.Title) + "\n" + m.notice.Detail + "\n\n" + HelpStyle.Render("enter OK")))
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render("tab next field • enter login • ctrl+r register • ctrl+c quit"))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("© 2025 MyApp. All rights reserved."))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *loginModel) fieldWidth() int {
	w := m.width - 8
	if w > 48 {
		w = 48
	}
	if w < 20 {
		w = 20
	}
	return w
}
