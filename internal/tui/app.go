// Package tui is the terminal client: an auth screen until the session has an
// identity, then the chat room.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"chatroom/internal/feed"
	"chatroom/internal/gateway"
	"chatroom/internal/permission"
	"chatroom/internal/picker"
	"chatroom/internal/session"
)

// FeedFactory builds a fresh engine for one chat screen mount.
type FeedFactory func(onChange func(feed.State)) *feed.Engine

type Deps struct {
	Session     *session.Controller
	Auth        gateway.Auth
	NewFeed     FeedFactory
	Gallery     permission.Helper
	Picker      ImagePicker
	PickOptions picker.Options
}

type sessionChangedMsg struct{}

// Model is the navigator.
type Model struct {
	ctx  context.Context
	deps Deps

	sessionCh chan struct{}
	unwatch   func()

	login   *loginModel
	chat    *chatModel
	spinner spinner.Model
	size    tea.WindowSizeMsg
	err     error
	log     *slog.Logger
}

func New(ctx context.Context, deps Deps) *Model {
	m := &Model{
		ctx:       ctx,
		deps:      deps,
		sessionCh: make(chan struct{}, 1),
		login:     newLoginModel(ctx, deps.Auth),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		log:       slog.Default().With("component", "tui"),
	}
	m.unwatch = deps.Session.Watch(func(*gateway.Identity) {
		select {
		case m.sessionCh <- struct{}{}:
		default:
		}
	})
	return m
}

// Run drives m until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps) error {
	m := New(ctx, deps)
	defer m.shutdown()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.login.Init(),
		m.spinner.Tick,
		func() tea.Msg { return sessionChangedMsg{} },
	)
}

func (m *Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		<-ch
		return sessionChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case sessionChangedMsg:
		return m, tea.Batch(m.navigate(), m.waitForSession())
	case signedOutMsg:
		if msg.err != nil {
			m.log.Warn("sign out failed", "err", msg.err)
			m.err = msg.err
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, chatKeys.Quit) {
			m.shutdown()
			return m, tea.Quit
		}
		if m.chat != nil && key.Matches(msg, chatKeys.SignOut) {
			return m, signOut(m.ctx, m.deps.Session.SignOut)
		}
	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.chat != nil {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// navigate mounts or unmounts the chat screen to match the session.
func (m *Model) navigate() tea.Cmd {
	if m.deps.Session.Initializing() {
		return nil
	}
	id := m.deps.Session.Current()

	switch {
	case id == nil && m.chat != nil:
		m.chat.close()
		m.chat = nil
		m.login = newLoginModel(m.ctx, m.deps.Auth)
		m.login.width = m.size.Width
		m.log.Info("signed out")
		return m.login.Init()

	case id != nil && m.chat != nil && m.chat.identity.UID != id.UID:
		m.chat.close()
		m.chat = nil
		fallthrough

	case id != nil && m.chat == nil:
		m.chat = mountChat(m.ctx, m.deps, *id)
		m.log.Info("chat mounted", "email", id.Email)
		m.err = nil
		cmds := []tea.Cmd{m.chat.Init()}
		if m.size.Width > 0 {
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(m.size)
			cmds = append(cmds, cmd)
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (m *Model) shutdown() {
	if m.chat != nil {
		m.chat.close()
		m.chat = nil
	}
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
}

func (m *Model) View() string {
	if m.deps.Session.Initializing() {
		return m.spinner.View() + " Loading..."
	}
	var view string
	if m.chat != nil {
		view = m.chat.View()
	} else {
		view = m.login.View()
	}
	if m.err != nil {
		view += "\n" + ErrorStyle.Render(m.err.Error())
	}
	return view
}
