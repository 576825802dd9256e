package cli

import (
	"io"
	"time"

	"github.com/fatih/color"

	"chatroom/internal/gateway"
)

var (
	timeColor   = color.New(color.Faint)
	selfColor   = color.New(color.FgGreen, color.Bold)
	senderColor = color.New(color.FgCyan)
	imageColor  = color.New(color.FgYellow)
	noticeColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

// feedPrinter writes each message once, in feed order.
type feedPrinter struct {
	w       io.Writer
	me      string
	history int
	seen    map[string]bool
	primed  bool
}

func newFeedPrinter(w io.Writer, me string, history int) *feedPrinter {
	return &feedPrinter{w: w, me: me, history: history, seen: make(map[string]bool)}
}

// print writes the messages of msgs not printed before. On the first call
// only the last history messages are written when history > 0.
func (p *feedPrinter) print(msgs []gateway.Message) {
	start := 0
	if !p.primed {
		p.primed = true
		if p.history > 0 && len(msgs) > p.history {
			start = len(msgs) - p.history
			for _, m := range msgs[:start] {
				p.seen[m.ID] = true
			}
		}
	}

	for _, m := range msgs[start:] {
		if p.seen[m.ID] {
			continue
		}
		p.seen[m.ID] = true
		p.line(m)
	}
}

func (p *feedPrinter) line(m gateway.Message) {
	stamp := "--:--"
	if m.CreatedAt != nil {
		stamp = m.CreatedAt.In(time.Local).Format("15:04")
	}
	timeColor.Fprintf(p.w, "[%s] ", stamp)

	if m.Author == p.me {
		selfColor.Fprint(p.w, "you")
	} else {
		senderColor.Fprint(p.w, m.Author)
	}
	io.WriteString(p.w, ": ")

	if m.Image != "" || m.ImageURL != "" {
		imageColor.Fprint(p.w, "[image]")
		if m.Text != "" {
			io.WriteString(p.w, " ")
		}
	}
	io.WriteString(p.w, m.Text)
	io.WriteString(p.w, "\n")
}
