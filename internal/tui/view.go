package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"chatroom/internal/feed"
	"chatroom/internal/gateway"
)

const imageMarker = "[image]"

func (m *chatModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Chat Room"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Logged in as: " + m.identity.Email))
	b.WriteString("\n\n")

	switch m.state.Status {
	case feed.StatusLoading:
		b.WriteString(m.spinner.View() + " " + msgLoadingFeed)
		b.WriteString("\n")
	default:
		if m.ready {
			b.WriteString(m.viewport.View())
		} else {
			b.WriteString(renderMessages(m.state.Messages, m.identity.Email, m.width))
		}
		b.WriteString("\n")
	}

	if line := m.statusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.state.HasDraftImage() {
		b.WriteString(AttachmentStyle.Render(imageMarker+" attached") + HelpStyle.Render("  (ctrl+x remove)"))
		b.WriteString("\n")
	}

	b.WriteString(InputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.helpLine())

	return b.String()
}

func (m *chatModel) statusLine() string {
	switch {
	case m.state.Status == feed.StatusError && m.state.Err != nil:
		return ErrorStyle.Render(fmt.Sprintf("Gagal memuat pesan: %v", m.state.Err))
	case m.banner != "":
		return ErrorStyle.Render(m.banner)
	case m.picking:
		return SubtitleStyle.Render("Memilih gambar...")
	case m.sending > 0:
		return SubtitleStyle.Render(m.spinner.View() + " Sending...")
	}
	return ""
}

func (m *chatModel) helpLine() string {
	send := "enter send"
	if !m.state.CanSend() {
		send = lipgloss.NewStyle().Strikethrough(true).Render(send)
	}
	count := fmt.Sprintf("%d/%d", len([]rune(m.input.Value())), m.engine.MaxLength())
	return HelpStyle.Render(strings.Join([]string{send, "ctrl+o image", "ctrl+x remove image", "ctrl+l sign out", "ctrl+c quit", count}, " • "))
}

// recalculateLayout sizes the viewport to what the header, status and input
// rows leave free.
func (m *chatModel) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	height := m.height - HeaderHeight - InputHeight - InputBorder - FooterHeight
	if m.statusLine() != "" {
		height--
	}
	if m.state.HasDraftImage() {
		height--
	}
	if height < MinViewportRow {
		height = MinViewportRow
	}

	content := renderMessages(m.state.Messages, m.identity.Email, m.width)
	if !m.ready {
		m.viewport = viewport.New(m.width, height)
		m.ready = true
		m.viewport.SetContent(content)
		m.viewport.GotoBottom()
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = height
		m.viewport.SetContent(content)
	}
	m.input.SetWidth(m.width - InputBorder)
}

func renderMessages(msgs []gateway.Message, me string, width int) string {
	if len(msgs) == 0 {
		return SubtitleStyle.Render("Belum ada pesan")
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, renderMessage(msg, me, width))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage draws one bubble: own messages on the right, others on the
// left under the sender's email.
func renderMessage(msg gateway.Message, me string, width int) string {
	mine := msg.Author == me

	var lines []string
	if msg.Image != "" || msg.ImageURL != "" {
		lines = append(lines, imageMarker)
	}
	if msg.Text != "" {
		lines = append(lines, msg.Text)
	}
	body := strings.Join(lines, "\n")

	style := OtherBubbleStyle
	if mine {
		style = MineBubbleStyle
	}
	if limit := width * 3 / 4; limit > 0 && lipgloss.Width(body) > limit {
		style = style.Width(limit)
	}

	bubble := style.Render(body)
	if t := formatTime(msg.CreatedAt); t != "" {
		bubble = lipgloss.JoinVertical(lipgloss.Left, bubble, TimeStyle.Render(t))
	}

	if mine {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	return SenderStyle.Render(msg.Author) + "\n" + bubble
}

// formatTime renders HH:MM in local time, blank until the server commits createdAt.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("15:04")
}
