package firebasegw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatroom/internal/gateway"
)

// messageDoc is the document layout the mobile client writes.
type messageDoc struct {
	Text        string     `firestore:"text"`
	User        string     `firestore:"user"`
	ImageBase64 *string    `firestore:"imageBase64"`
	ImageURL    string     `firestore:"imageUrl,omitempty"`
	CreatedAt   *time.Time `firestore:"createdAt"`
}

func (d messageDoc) message(id string) gateway.Message {
	m := gateway.Message{
		ID:       id,
		Text:     d.Text,
		Author:   d.User,
		ImageURL: d.ImageURL,
	}
	if d.ImageBase64 != nil {
		m.Image = *d.ImageBase64
	}
	if d.CreatedAt != nil {
		t := d.CreatedAt.UTC()
		m.CreatedAt = &t
	}
	return m
}

// newDocFields builds the Add payload. createdAt is left to the server.
func newDocFields(msg gateway.NewMessage) map[string]interface{} {
	fields := map[string]interface{}{
		"text":      msg.Text,
		"user":      msg.Author,
		"createdAt": firestore.ServerTimestamp,
	}
	if msg.Image != "" {
		fields["imageBase64"] = msg.Image
	} else {
		fields["imageBase64"] = nil
	}
	if msg.ImageURL != "" {
		fields["imageUrl"] = msg.ImageURL
	}
	return fields
}

// Messages serves live queries from Firestore.
type Messages struct {
	client *firestore.Client
	log    *slog.Logger
}

func NewMessages(client *firestore.Client) *Messages {
	return &Messages{client: client, log: slog.Default().With("component", "firebasegw.messages")}
}

func (m *Messages) Append(ctx context.Context, collection string, msg gateway.NewMessage) (string, error) {
	ref, _, err := m.client.Collection(collection).Add(ctx, newDocFields(msg))
	if err != nil {
		return "", fmt.Errorf("append %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (m *Messages) Subscribe(ctx context.Context, q gateway.Query, onSnapshot func([]gateway.Message), onError func(error)) (gateway.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := firestore.Asc
	if q.Direction == gateway.Desc {
		dir = firestore.Desc
	}

	ctx, cancel := context.WithCancel(ctx)
	it := m.client.Collection(q.Collection).OrderBy(q.OrderBy, dir).Snapshots(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.watch(ctx, it, q.Collection, onSnapshot, onError)
	}()

	var once sync.Once
	return gateway.SubscriptionFunc(func() {
		once.Do(func() {
			cancel()
			it.Stop()
			<-done
		})
	}), nil
}

func (m *Messages) watch(ctx context.Context, it *firestore.QuerySnapshotIterator, collection string, onSnapshot func([]gateway.Message), onError func(error)) {
	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return
			}
			m.log.Error("snapshot listener failed", "collection", collection, "err", err)
			onError(err)
			return
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			onError(err)
			return
		}

		out := make([]gateway.Message, 0, len(docs))
		for _, doc := range docs {
			var d messageDoc
			if err := doc.DataTo(&d); err != nil {
				m.log.Warn("skipping malformed message", "id", doc.Ref.ID, "err", err)
				continue
			}
			out = append(out, d.message(doc.Ref.ID))
		}
		if ctx.Err() != nil {
			return
		}
		onSnapshot(out)
	}
}
