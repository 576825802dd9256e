// Package memgw is an in-process gateway with the same observable behaviour
// as the hosted backends. It backs tests and the offline "memory" backend.
package memgw

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatroom/internal/common"
	"chatroom/internal/gateway"
)

type user struct {
	uid      string
	email    string
	password string
}

type subscriber struct {
	query      gateway.Query
	onSnapshot func([]gateway.Message)
	onError    func(error)
	stopped    bool
}

// Gateway keeps users, collections and blobs in memory.
type Gateway struct {
	gateway.AuthState

	mu          sync.Mutex
	users       map[string]*user
	collections map[string][]gateway.Message
	blobs       map[string][]byte
	subs        map[int]*subscriber
	nextSub     int

	appendErr    error
	subscribeErr error

	// deliverMu orders snapshot delivery across concurrent writers.
	deliverMu sync.Mutex

	now func() time.Time
}

type Option func(*Gateway)

// WithClock overrides the server clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithUser seeds a registered account.
func WithUser(email, password string) Option {
	return func(g *Gateway) {
		email = common.NormalizeEmail(email)
		g.users[email] = &user{uid: uuid.NewString(), email: email, password: password}
	}
}

func New(opts ...Option) *Gateway {
	g := &Gateway{
		users:       make(map[string]*user),
		collections: make(map[string][]gateway.Message),
		blobs:       make(map[string][]byte),
		subs:        make(map[int]*subscriber),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bundle exposes g through the gateway.Gateway surfaces.
func (g *Gateway) Bundle() *gateway.Gateway {
	return &gateway.Gateway{Auth: g, Messages: g, Blobs: g}
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	if err := ctx.Err(); err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}
	if common.ValidateEmail(strings.TrimSpace(email)) != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeInvalidEmail, nil)
	}

	g.mu.Lock()
	u, ok := g.users[common.NormalizeEmail(email)]
	g.mu.Unlock()

	if !ok {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUserNotFound, nil)
	}
	if u.password != password {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeWrongPassword, nil)
	}

	id := gateway.Identity{UID: u.uid, Email: u.email, Token: "mem-" + u.uid}
	g.Set(&id)
	return id, nil
}

func (g *Gateway) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	if err := ctx.Err(); err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}
	if common.ValidateEmail(strings.TrimSpace(email)) != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeInvalidEmail, nil)
	}
	if err := common.ValidatePassword(password); err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeWeakPassword, err)
	}

	key := common.NormalizeEmail(email)
	g.mu.Lock()
	if _, exists := g.users[key]; exists {
		g.mu.Unlock()
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeEmailAlreadyInUse, nil)
	}
	u := &user{uid: uuid.NewString(), email: key, password: password}
	g.users[key] = u
	g.mu.Unlock()

	id := gateway.Identity{UID: u.uid, Email: u.email, Token: "mem-" + u.uid}
	g.Set(&id)
	return id, nil
}

func (g *Gateway) SignOut(ctx context.Context) error {
	g.Set(nil)
	return nil
}

// FailAppends makes every Append return err until called with nil.
func (g *Gateway) FailAppends(err error) {
	g.mu.Lock()
	g.appendErr = err
	g.mu.Unlock()
}

// FailSubscriptions makes every Subscribe return err until called with nil.
func (g *Gateway) FailSubscriptions(err error) {
	g.mu.Lock()
	g.subscribeErr = err
	g.mu.Unlock()
}

// BreakSubscriptions pushes err to every live subscription and drops them.
func (g *Gateway) BreakSubscriptions(err error) {
	g.mu.Lock()
	broken := make([]*subscriber, 0, len(g.subs))
	for id, s := range g.subs {
		if !s.stopped {
			broken = append(broken, s)
		}
		s.stopped = true
		delete(g.subs, id)
	}
	g.mu.Unlock()

	for _, s := range broken {
		s.onError(err)
	}
}

// Subscribers reports the number of live subscriptions.
func (g *Gateway) Subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

func (g *Gateway) Subscribe(ctx context.Context, q gateway.Query, onSnapshot func([]gateway.Message), onError func(error)) (gateway.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.subscribeErr != nil {
		err := g.subscribeErr
		g.mu.Unlock()
		return nil, err
	}
	id := g.nextSub
	g.nextSub++
	s := &subscriber{query: q, onSnapshot: onSnapshot, onError: onError}
	g.subs[id] = s
	g.mu.Unlock()

	stop := func() {
		g.mu.Lock()
		s.stopped = true
		delete(g.subs, id)
		g.mu.Unlock()
	}

	g.deliverMu.Lock()
	g.deliver(s)
	g.deliverMu.Unlock()

	return gateway.SubscriptionFunc(stop), nil
}

func (g *Gateway) Append(ctx context.Context, collection string, msg gateway.NewMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.deliverMu.Lock()
	defer g.deliverMu.Unlock()

	g.mu.Lock()
	if g.appendErr != nil {
		err := g.appendErr
		g.mu.Unlock()
		return "", fmt.Errorf("append %s: %w", collection, err)
	}
	created := g.now().UTC()
	doc := gateway.Message{
		ID:        uuid.NewString(),
		Text:      msg.Text,
		Author:    msg.Author,
		Image:     msg.Image,
		ImageURL:  msg.ImageURL,
		CreatedAt: &created,
	}
	g.collections[collection] = append(g.collections[collection], doc)

	targets := make([]*subscriber, 0, len(g.subs))
	for _, s := range g.subs {
		if s.query.Collection == collection {
			targets = append(targets, s)
		}
	}
	g.mu.Unlock()

	for _, s := range targets {
		g.deliver(s)
	}
	return doc.ID, nil
}

// deliver runs with deliverMu held.
func (g *Gateway) deliver(s *subscriber) {
	g.mu.Lock()
	if s.stopped {
		g.mu.Unlock()
		return
	}
	snapshot := g.snapshotLocked(s.query)
	g.mu.Unlock()

	s.onSnapshot(snapshot)
}

func (g *Gateway) snapshotLocked(q gateway.Query) []gateway.Message {
	docs := append([]gateway.Message(nil), g.collections[q.Collection]...)
	if q.OrderBy == gateway.OrderCreatedAt {
		sort.SliceStable(docs, func(i, j int) bool {
			if q.Direction == gateway.Desc {
				return createdBefore(docs[j], docs[i])
			}
			return createdBefore(docs[i], docs[j])
		})
	}
	return docs
}

// Uncommitted (nil) timestamps sort first, as they do in Firestore.
func createdBefore(a, b gateway.Message) bool {
	switch {
	case a.CreatedAt == nil:
		return b.CreatedAt != nil
	case b.CreatedAt == nil:
		return false
	default:
		return a.CreatedAt.Before(*b.CreatedAt)
	}
}

func (g *Gateway) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := "uploads/" + uuid.NewString() + "-" + name
	g.mu.Lock()
	g.blobs[path] = append([]byte(nil), data...)
	g.mu.Unlock()
	return path, nil
}

func (g *Gateway) URL(ctx context.Context, path string) (string, error) {
	g.mu.Lock()
	_, ok := g.blobs[path]
	g.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("blob %s not found", path)
	}
	return "mem://" + path, nil
}

// Blob returns an uploaded blob's bytes.
func (g *Gateway) Blob(path string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.blobs[path]
	return b, ok
}
