package selfhost

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatroom/internal/dbmysql"
	"chatroom/internal/gateway"
)

type recorder struct {
	mu        sync.Mutex
	snapshots [][]gateway.Message
	errs      []error
}

func (r *recorder) onSnapshot(msgs []gateway.Message) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, msgs)
	r.mu.Unlock()
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recorder) last() []gateway.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recorder) count() (snapshots, errs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots), len(r.errs)
}

func texts(msgs []gateway.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func newTestMessages(t *testing.T, poll time.Duration) (*Messages, *fakeMessageRepo) {
	t.Helper()
	repo := &fakeMessageRepo{}
	hub := NewHub(1)
	t.Cleanup(hub.Shutdown)
	return NewMessages(repo, hub, poll), repo
}

func TestMessages_InitialSnapshotAndAppend(t *testing.T) {
	m, _ := newTestMessages(t, time.Hour)
	ctx := context.Background()

	_, err := m.Append(ctx, "messages", gateway.NewMessage{Text: "before", Author: "a@x.com"})
	require.NoError(t, err)

	rec := &recorder{}
	sub, err := m.Subscribe(ctx, gateway.FeedQuery("messages"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Stop()

	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)
	first := rec.last()[0]
	assert.Equal(t, "before", first.Text)
	assert.Equal(t, "a@x.com", first.Author)
	require.NotNil(t, first.CreatedAt)

	id, err := m.Append(ctx, "messages", gateway.NewMessage{Text: "after", Author: "b@x.com", Image: "QkJC"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Hub push, not the hour-long poll.
	require.Eventually(t, func() bool { return len(rec.last()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"before", "after"}, texts(rec.last()))
	assert.Equal(t, id, rec.last()[1].ID)
	assert.Equal(t, "QkJC", rec.last()[1].Image)
}

func TestMessages_OtherCollectionsIgnored(t *testing.T) {
	m, repo := newTestMessages(t, time.Hour)
	ctx := context.Background()

	rec := &recorder{}
	sub, err := m.Subscribe(ctx, gateway.FeedQuery("room-a"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Stop()
	require.Eventually(t, func() bool { n, _ := rec.count(); return n == 1 }, time.Second, 5*time.Millisecond)

	_, err = m.Append(ctx, "room-b", gateway.NewMessage{Text: "elsewhere"})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	n, _ := rec.count()
	assert.Equal(t, 1, n)
	assert.Empty(t, rec.last())
	repo.mu.Lock()
	assert.Equal(t, 1, repo.lists)
	repo.mu.Unlock()
}

func TestMessages_PollsForExternalWrites(t *testing.T) {
	m, repo := newTestMessages(t, 10*time.Millisecond)

	rec := &recorder{}
	sub, err := m.Subscribe(context.Background(), gateway.FeedQuery("messages"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Stop()

	repo.insertExternal(dbmysql.Message{DocID: "ext-1", Collection: "messages", Text: "from elsewhere", CreatedAt: time.Now().UTC()})

	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ext-1", rec.last()[0].ID)
}

func TestMessages_OrderTieBreaksOnInsertOrder(t *testing.T) {
	m, repo := newTestMessages(t, time.Hour)
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.insertExternal(dbmysql.Message{DocID: "1", Collection: "messages", Text: "a", CreatedAt: same})
	repo.insertExternal(dbmysql.Message{DocID: "2", Collection: "messages", Text: "b", CreatedAt: same})
	repo.insertExternal(dbmysql.Message{DocID: "0", Collection: "messages", Text: "z", CreatedAt: same.Add(-time.Minute)})

	rec := &recorder{}
	sub, err := m.Subscribe(context.Background(), gateway.FeedQuery("messages"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Stop()

	require.Eventually(t, func() bool { return len(rec.last()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"z", "a", "b"}, texts(rec.last()))
}

func TestMessages_ErrorEndsSubscription(t *testing.T) {
	m, repo := newTestMessages(t, 10*time.Millisecond)
	boom := errors.New("connection lost")

	rec := &recorder{}
	sub, err := m.Subscribe(context.Background(), gateway.FeedQuery("messages"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Stop()
	require.Eventually(t, func() bool { n, _ := rec.count(); return n == 1 }, time.Second, 5*time.Millisecond)

	repo.failLists(boom)
	repo.insertExternal(dbmysql.Message{DocID: "x", Collection: "messages", CreatedAt: time.Now()})

	require.Eventually(t, func() bool { _, e := rec.count(); return e == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	snaps, errs := rec.count()
	assert.Equal(t, 1, snaps)
	assert.Equal(t, 1, errs)
}

func TestMessages_NoCallbacksAfterStop(t *testing.T) {
	m, _ := newTestMessages(t, 5*time.Millisecond)

	rec := &recorder{}
	sub, err := m.Subscribe(context.Background(), gateway.FeedQuery("messages"), rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	require.Eventually(t, func() bool { n, _ := rec.count(); return n == 1 }, time.Second, 5*time.Millisecond)

	sub.Stop()
	sub.Stop()
	before, _ := rec.count()

	_, err = m.Append(context.Background(), "messages", gateway.NewMessage{Text: "late"})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	after, errs := rec.count()
	assert.Equal(t, before, after)
	assert.Zero(t, errs)
}

func TestMessages_SubscribeCancelledContext(t *testing.T) {
	m, _ := newTestMessages(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Subscribe(ctx, gateway.FeedQuery("messages"), func([]gateway.Message) {}, func(error) {})
	assert.ErrorIs(t, err, context.Canceled)
}
