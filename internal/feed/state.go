package feed

import (
	"strings"

	"chatroom/internal/gateway"
)

// Status of the live subscription behind a feed.
type Status int

const (
	// StatusLoading is the state before the first snapshot arrives.
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of an engine's observable state.
type State struct {
	Messages   []gateway.Message
	DraftText  string
	DraftImage string // base64, empty when nothing is attached
	Status     Status
	// Err is the subscription failure when Status is StatusError.
	Err error
}

// HasDraftImage reports whether an attachment is pending.
func (s State) HasDraftImage() bool {
	return s.DraftImage != ""
}

// CanSend reports whether Send would issue a write.
func (s State) CanSend() bool {
	return strings.TrimSpace(s.DraftText) != "" || s.DraftImage != ""
}

func (s State) clone() State {
	c := s
	if s.Messages != nil {
		c.Messages = append([]gateway.Message(nil), s.Messages...)
	}
	return c
}
