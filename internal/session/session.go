// Package session tracks the signed-in identity reported by the gateway.
package session

import (
	"context"
	"log/slog"
	"sync"

	"chatroom/internal/gateway"
)

// Controller mirrors the gateway auth state for the rest of the client.
type Controller struct {
	auth gateway.Auth

	mu           sync.Mutex
	current      *gateway.Identity
	initializing bool
	watchers     map[int]func(*gateway.Identity)
	nextWatcher  int
	cancel       func()
}

// New starts observing auth state. Call Close when done.
func New(auth gateway.Auth) *Controller {
	c := &Controller{
		auth:         auth,
		initializing: true,
		watchers:     make(map[int]func(*gateway.Identity)),
	}
	cancel := auth.ObserveAuthState(c.update)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	return c
}

func (c *Controller) update(id *gateway.Identity) {
	if id != nil {
		cp := *id
		id = &cp
	}

	c.mu.Lock()
	c.current = id
	c.initializing = false
	watchers := make([]func(*gateway.Identity), 0, len(c.watchers))
	for _, fn := range c.watchers {
		watchers = append(watchers, fn)
	}
	c.mu.Unlock()

	slog.Debug("session changed", "signed_in", id != nil)
	for _, fn := range watchers {
		fn(copyIdentity(id))
	}
}

// Current returns the signed-in identity, or nil.
func (c *Controller) Current() *gateway.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyIdentity(c.current)
}

// Initializing is true until the gateway reports the first auth state.
func (c *Controller) Initializing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initializing
}

// Watch calls fn on every auth state change until the returned func is called.
func (c *Controller) Watch(fn func(*gateway.Identity)) (unwatch func()) {
	c.mu.Lock()
	id := c.nextWatcher
	c.nextWatcher++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) SignOut(ctx context.Context) error {
	return c.auth.SignOut(ctx)
}

// Close stops observing the gateway. Watchers receive nothing afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.watchers = make(map[int]func(*gateway.Identity))
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func copyIdentity(id *gateway.Identity) *gateway.Identity {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}
