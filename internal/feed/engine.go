// Package feed keeps a chat room's message list in sync with a live gateway
// subscription and turns the local draft into gateway writes.
package feed

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"chatroom/internal/gateway"
	"chatroom/internal/metrics"
)

const (
	DefaultCollection = "messages"
	DefaultMaxLength  = 500
)

// Options configures an Engine.
type Options struct {
	// Collection defaults to DefaultCollection.
	Collection string
	// MaxLength is the draft limit the UI enforces; the engine never truncates.
	MaxLength int
	// InlineImageLimit is the largest base64 image kept inside the message
	// document. Larger images are uploaded to blob storage when available.
	// Zero keeps every image inline.
	InlineImageLimit int
	Logger           *slog.Logger
	// OnChange runs after every state mutation with the latest state. It must
	// not call back into the engine synchronously.
	OnChange func(State)
}

// Engine is one chat screen's feed. Create one per mount; Stop it on every exit path.
type Engine struct {
	messages gateway.Messages
	blobs    gateway.Blobs
	opts     Options
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	identity string
	running  bool
	// gen changes on every Start and Stop; callbacks and sends tagged with an
	// older value are discarded.
	gen    uint64
	sub    gateway.Subscription
	cancel context.CancelFunc

	notifyMu sync.Mutex
}

// New builds an engine over messages. blobs may be nil.
func New(messages gateway.Messages, blobs gateway.Blobs, opts Options) *Engine {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Engine{
		messages: messages,
		blobs:    blobs,
		opts:     opts,
		log:      l.With("component", "feed", "collection", opts.Collection),
		state:    State{Status: StatusLoading},
	}
}

// MaxLength is the draft length the UI should enforce.
func (e *Engine) MaxLength() int {
	return e.opts.MaxLength
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Identity returns the author used for sends, empty before Start.
func (e *Engine) Identity() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// Start opens the live subscription for identity. Subscription failures are
// reported through State, not the returned error.
func (e *Engine) Start(ctx context.Context, identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidIdentity
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrInvalidState
	}
	e.running = true
	e.gen++
	gen := e.gen
	e.identity = identity
	e.state.Messages = nil
	e.state.Status = StatusLoading
	e.state.Err = nil
	e.mu.Unlock()
	e.notify()

	subCtx, cancel := context.WithCancel(ctx)
	sub, err := e.messages.Subscribe(subCtx, gateway.FeedQuery(e.opts.Collection),
		func(msgs []gateway.Message) { e.applySnapshot(gen, msgs) },
		func(err error) { e.fail(gen, err) },
	)
	if err != nil {
		cancel()
		e.fail(gen, err)
		return nil
	}

	e.mu.Lock()
	if !e.running || e.gen != gen {
		// Stopped while subscribing.
		e.mu.Unlock()
		sub.Stop()
		cancel()
		return nil
	}
	e.sub = sub
	e.cancel = cancel
	e.mu.Unlock()

	metrics.FeedSubscriptions.Inc()
	e.log.Debug("feed subscribed", "identity", identity)
	return nil
}

// Stop releases the subscription. It is safe to call repeatedly and before Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.gen++
	sub, cancel := e.sub, e.cancel
	e.sub, e.cancel = nil, nil
	e.mu.Unlock()

	if sub != nil {
		sub.Stop()
		metrics.FeedSubscriptions.Dec()
	}
	if cancel != nil {
		cancel()
	}
	e.log.Debug("feed stopped")
}

func (e *Engine) applySnapshot(gen uint64, msgs []gateway.Message) {
	e.mu.Lock()
	if !e.running || e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.state.Messages = append([]gateway.Message(nil), msgs...)
	e.state.Status = StatusReady
	e.state.Err = nil
	e.mu.Unlock()

	metrics.FeedSnapshots.Inc()
	e.notify()
}

func (e *Engine) fail(gen uint64, err error) {
	e.mu.Lock()
	if !e.running || e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.state.Status = StatusError
	e.state.Err = err
	e.mu.Unlock()

	e.log.Error("feed subscription failed", "err", err)
	e.notify()
}

func (e *Engine) SetDraftText(text string) {
	e.mu.Lock()
	e.state.DraftText = text
	e.mu.Unlock()
	e.notify()
}

// AttachImage sets the pending attachment (base64). Content is not validated.
func (e *Engine) AttachImage(encoded string) {
	e.mu.Lock()
	e.state.DraftImage = encoded
	e.mu.Unlock()
	e.notify()
}

func (e *Engine) ClearImage() {
	e.mu.Lock()
	e.state.DraftImage = ""
	e.mu.Unlock()
	e.notify()
}

// Send appends the current draft. An empty draft is a no-op. The text and
// image are captured when Send is called; edits made while the write is in
// flight belong to the next message and survive the clear on success.
func (e *Engine) Send(ctx context.Context) error {
	e.mu.Lock()
	if !e.state.CanSend() {
		e.mu.Unlock()
		return nil
	}
	if !e.running {
		e.mu.Unlock()
		return ErrNotStarted
	}
	gen := e.gen
	text, image := e.state.DraftText, e.state.DraftImage
	msg := gateway.NewMessage{Text: text, Author: e.identity, Image: image}
	e.mu.Unlock()

	err := e.offloadImage(ctx, &msg)
	if err == nil {
		_, err = e.messages.Append(ctx, e.opts.Collection, msg)
	}

	if err != nil {
		metrics.FeedSends.WithLabelValues("error").Inc()
		e.log.Warn("send failed", "err", err)
		return &SendError{Err: err}
	}

	e.mu.Lock()
	if !e.running || e.gen != gen {
		e.mu.Unlock()
		metrics.FeedSends.WithLabelValues("discarded").Inc()
		return nil
	}
	if e.state.DraftText == text {
		e.state.DraftText = ""
	}
	if e.state.DraftImage == image {
		e.state.DraftImage = ""
	}
	e.mu.Unlock()

	metrics.FeedSends.WithLabelValues("ok").Inc()
	e.notify()
	return nil
}

func (e *Engine) offloadImage(ctx context.Context, msg *gateway.NewMessage) error {
	limit := e.opts.InlineImageLimit
	if msg.Image == "" || limit <= 0 || len(msg.Image) <= limit || e.blobs == nil {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(msg.Image)
	if err != nil {
		return fmt.Errorf("decode attachment: %w", err)
	}
	name := fmt.Sprintf("%d.jpg", time.Now().UnixNano())
	path, err := e.blobs.Upload(ctx, name, http.DetectContentType(data), data)
	if err != nil {
		return fmt.Errorf("upload attachment: %w", err)
	}
	url, err := e.blobs.URL(ctx, path)
	if err != nil {
		return fmt.Errorf("resolve attachment url: %w", err)
	}

	e.log.Debug("attachment offloaded", "path", path, "bytes", len(data))
	msg.Image = ""
	msg.ImageURL = url
	return nil
}

func (e *Engine) notify() {
	if e.opts.OnChange == nil {
		return
	}
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.opts.OnChange(e.State())
}
