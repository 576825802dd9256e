package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatroom/internal/feed"
	"chatroom/internal/gateway"
	"chatroom/internal/permission"
	"chatroom/internal/picker"
)

const (
	msgSendFailed    = "Gagal mengirim pesan. Cek koneksi internet"
	msgPickFailed    = "Gagal memuat gambar"
	msgNoPicker      = "Pemilih gambar tidak tersedia"
	msgLoadingFeed   = "Loading messages..."
	inputPlaceholder = "Type your message..."
)

type (
	feedChangedMsg struct{}
	sendDoneMsg    struct{ err error }
)

// chatModel is the chat screen. It owns one feed engine from mount to close.
type chatModel struct {
	ctx      context.Context
	identity gateway.Identity
	engine   *feed.Engine
	changed  chan struct{}
	done     chan struct{}

	gallery  permission.Helper
	picker   ImagePicker
	pickOpts picker.Options

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	state   feed.State
	banner  string
	picking bool
	sending int
	closed  bool

	width  int
	height int
	ready  bool
	log    *slog.Logger
}

// mountChat builds the chat screen for identity and starts its feed.
func mountChat(ctx context.Context, deps Deps, identity gateway.Identity) *chatModel {
	m := &chatModel{
		ctx:      ctx,
		identity: identity,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		gallery:  deps.Gallery,
		picker:   deps.Picker,
		pickOpts: deps.PickOptions,
		width:    DefaultWidth,
		log:      slog.Default().With("component", "tui.chat"),
	}

	// OnChange runs on gateway goroutines; it only raises a flag.
	m.engine = deps.NewFeed(func(feed.State) {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.CharLimit = m.engine.MaxLength()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(InputHeight)
	ta.SetWidth(DefaultWidth - InputBorder)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	m.input = ta

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = FocusedStyle
	m.spinner = sp

	if err := m.engine.Start(ctx, identity.Email); err != nil {
		m.log.Error("feed start failed", "err", err)
		m.banner = err.Error()
	}
	m.state = m.engine.State()
	return m
}

func (m *chatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.waitForChange())
}

// waitForChange delivers one feedChangedMsg per burst of engine changes.
func (m *chatModel) waitForChange() tea.Cmd {
	changed, done := m.changed, m.done
	return func() tea.Msg {
		select {
		case <-changed:
			return feedChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// close stops the feed. The model must not be used afterwards.
func (m *chatModel) close() {
	if m.closed {
		return
	}
	m.closed = true
	m.engine.Stop()
	close(m.done)
}

func (m *chatModel) Update(msg tea.Msg) (*chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.recalculateLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case feedChangedMsg:
		m.syncState()
		return m, m.waitForChange()

	case sendDoneMsg:
		m.sending--
		if msg.err != nil {
			m.banner = msgSendFailed
		} else if m.banner == msgSendFailed {
			m.banner = ""
		}
		return m, nil

	case imagePickedMsg:
		m.picking = false
		m.applyPick(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Send):
			return m, m.send()
		case key.Matches(msg, chatKeys.AttachImage):
			return m, m.pickImage()
		case key.Matches(msg, chatKeys.RemoveImage):
			m.engine.ClearImage()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if v := m.input.Value(); v != before {
		m.engine.SetDraftText(v)
	}

	if _, ok := msg.(tea.MouseMsg); ok {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// syncState pulls the engine state into the view. The engine clears the
// draft after a send; the input follows.
func (m *chatModel) syncState() {
	prevCount := len(m.state.Messages)
	m.state = m.engine.State()
	if m.state.DraftText != m.input.Value() {
		m.input.SetValue(m.state.DraftText)
	}
	m.recalculateLayout()
	if len(m.state.Messages) != prevCount && m.ready {
		m.viewport.GotoBottom()
	}
}

func (m *chatModel) send() tea.Cmd {
	if !m.engine.State().CanSend() {
		return nil
	}
	m.sending++
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		return sendDoneMsg{err: engine.Send(ctx)}
	}
}

func (m *chatModel) applyPick(msg imagePickedMsg) {
	switch {
	case msg.err != nil:
		m.log.Warn("image pick failed", "err", msg.err)
		m.banner = msgPickFailed + ": " + msg.err.Error()
	case msg.denied:
		m.banner = permission.GalleryMessage
	case msg.ok:
		m.banner = ""
		m.engine.AttachImage(msg.image)
	}
}
