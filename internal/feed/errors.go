package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned by Start on an engine that is already running.
	ErrInvalidState = errors.New("feed: engine already started")
	// ErrInvalidIdentity is returned by Start for an empty identity.
	ErrInvalidIdentity = errors.New("feed: identity must not be empty")
	// ErrNotStarted is returned by Send before Start.
	ErrNotStarted = errors.New("feed: engine not started")
)

// SendError reports a failed send. The draft is left untouched.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("feed: send failed: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
