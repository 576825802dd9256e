// Package gateway defines the backend contract the chat client consumes:
// password auth, a live ordered message collection and blob storage.
package gateway

import (
	"context"
	"time"
)

// Direction of a query ordering.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// OrderCreatedAt is the field every feed query orders by.
const OrderCreatedAt = "createdAt"

// Identity is the signed-in user as reported by the gateway.
type Identity struct {
	UID   string
	Email string
	// Token is the backend session/ID token, opaque to callers.
	Token string
}

// Message is one committed chat document.
type Message struct {
	ID       string
	Text     string
	Author   string
	Image    string // base64
	ImageURL string
	// CreatedAt is nil until the backend commits the server timestamp.
	CreatedAt *time.Time
}

// HasContent reports whether m carries text or an image.
func (m Message) HasContent() bool {
	return m.Text != "" || m.Image != "" || m.ImageURL != ""
}

// NewMessage is the payload of an append. The backend assigns the ID and
// stamps createdAt with its own clock.
type NewMessage struct {
	Text     string
	Author   string
	Image    string
	ImageURL string
}

// Query selects an ordered collection.
type Query struct {
	Collection string
	OrderBy    string
	Direction  Direction
}

// FeedQuery is the query the chat room subscribes to.
func FeedQuery(collection string) Query {
	return Query{Collection: collection, OrderBy: OrderCreatedAt, Direction: Asc}
}

// Subscription is a live query handle.
type Subscription interface {
	// Stop releases the subscription. No callback runs after Stop returns.
	Stop()
}

// SubscriptionFunc adapts a func to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Stop() { f() }

// Auth is credential sign-in plus auth state observation.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	// ObserveAuthState calls fn with the current identity (nil when signed
	// out) right away and on every change until cancel is called.
	ObserveAuthState(fn func(*Identity)) (cancel func())
}

// Messages is the live document collection.
type Messages interface {
	// Subscribe pushes the complete ordered contents of q on every change.
	// onError is called at most once, after which no snapshot follows.
	Subscribe(ctx context.Context, q Query, onSnapshot func([]Message), onError func(error)) (Subscription, error)
	Append(ctx context.Context, collection string, msg NewMessage) (string, error)
}

// Blobs is object storage for offloaded attachments.
type Blobs interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	URL(ctx context.Context, path string) (string, error)
}

// Gateway bundles the three backend surfaces. Blobs may be nil.
type Gateway struct {
	Auth     Auth
	Messages Messages
	Blobs    Blobs
	// Close releases backend connections.
	Close func() error
}

// Shutdown calls Close when set.
func (g *Gateway) Shutdown() error {
	if g == nil || g.Close == nil {
		return nil
	}
	return g.Close()
}

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks chatroom/internal/gateway Auth,Messages,Blobs
