package selfhost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chatroom/internal/dbmysql"
	"chatroom/internal/gateway"
)

// Messages serves live queries from MySQL. Local appends are pushed through
// the hub right away; writes from other processes show up on the next poll.
type Messages struct {
	repo         dbmysql.MessageRepository
	hub          *Hub
	pollInterval time.Duration
	now          func() time.Time
	log          *slog.Logger

	nextID atomic.Uint64
}

func NewMessages(repo dbmysql.MessageRepository, hub *Hub, pollInterval time.Duration) *Messages {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Messages{
		repo:         repo,
		hub:          hub,
		pollInterval: pollInterval,
		now:          time.Now,
		log:          slog.Default().With("component", "selfhost.messages"),
	}
}

func (m *Messages) Append(ctx context.Context, collection string, msg gateway.NewMessage) (string, error) {
	row := &dbmysql.Message{
		DocID:       uuid.NewString(),
		Collection:  collection,
		Text:        msg.Text,
		Author:      msg.Author,
		ImageBase64: msg.Image,
		ImageURL:    msg.ImageURL,
		CreatedAt:   m.now().UTC(),
	}
	if err := m.repo.Create(ctx, row); err != nil {
		return "", fmt.Errorf("append %s: %w", collection, err)
	}

	m.hub.NotifyAsync(ChangeEvent{Collection: collection, Seq: row.Seq})
	return row.DocID, nil
}

func (m *Messages) Subscribe(ctx context.Context, q gateway.Query, onSnapshot func([]gateway.Message), onError func(error)) (gateway.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &liveQuery{
		name:       fmt.Sprintf("query-%d", m.nextID.Add(1)),
		query:      q,
		repo:       m.repo,
		changed:    make(chan struct{}, 1),
		onSnapshot: onSnapshot,
		onError:    onError,
		log:        m.log,
	}
	m.hub.Subscribe(s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx, m.pollInterval)
	}()

	var once sync.Once
	return gateway.SubscriptionFunc(func() {
		once.Do(func() {
			m.hub.Unsubscribe(s)
			cancel()
			<-done
		})
	}), nil
}

type liveQuery struct {
	name       string
	query      gateway.Query
	repo       dbmysql.MessageRepository
	changed    chan struct{}
	onSnapshot func([]gateway.Message)
	onError    func(error)
	log        *slog.Logger
}

func (s *liveQuery) Name() string { return s.name }

// Update coalesces change events; the run loop reloads at most once per signal.
func (s *liveQuery) Update(event ChangeEvent) error {
	if event.Collection != s.query.Collection {
		return nil
	}
	select {
	case s.changed <- struct{}{}:
	default:
	}
	return nil
}

func (s *liveQuery) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var lastSeq uint64
	first := true
	for {
		seq, err := s.repo.LatestSeq(ctx, s.query.Collection)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Error("live query failed", "collection", s.query.Collection, "err", err)
				s.onError(err)
			}
			return
		}

		if first || seq != lastSeq {
			rows, err := s.repo.List(ctx, s.query.Collection, s.query.Direction == gateway.Desc)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("live query failed", "collection", s.query.Collection, "err", err)
					s.onError(err)
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			s.onSnapshot(toMessages(rows))
			first = false
			lastSeq = seq
		}

		select {
		case <-ctx.Done():
			return
		case <-s.changed:
		case <-ticker.C:
		}
	}
}

func toMessages(rows []dbmysql.Message) []gateway.Message {
	out := make([]gateway.Message, len(rows))
	for i, r := range rows {
		created := r.CreatedAt
		out[i] = gateway.Message{
			ID:        r.DocID,
			Text:      r.Text,
			Author:    r.Author,
			Image:     r.ImageBase64,
			ImageURL:  r.ImageURL,
			CreatedAt: &created,
		}
	}
	return out
}
