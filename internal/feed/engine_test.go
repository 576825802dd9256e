package feed

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatroom/internal/gateway"
	"chatroom/internal/gateway/memgw"
	"chatroom/internal/gateway/mocks"
)

const me = "a@x.com"

// pushed captures the callbacks handed to a mocked Subscribe.
type pushed struct {
	mu         sync.Mutex
	onSnapshot func([]gateway.Message)
	onError    func(error)
	stops      int
}

func (p *pushed) snapshot(msgs ...gateway.Message) {
	p.mu.Lock()
	fn := p.onSnapshot
	p.mu.Unlock()
	fn(msgs)
}

func (p *pushed) fail(err error) {
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	fn(err)
}

func expectSubscribe(msgs *mocks.MockMessages, p *pushed) *gomock.Call {
	return msgs.EXPECT().
		Subscribe(gomock.Any(), gateway.FeedQuery(DefaultCollection), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.Query, onSnapshot func([]gateway.Message), onError func(error)) (gateway.Subscription, error) {
			p.mu.Lock()
			p.onSnapshot, p.onError = onSnapshot, onError
			p.mu.Unlock()
			return gateway.SubscriptionFunc(func() {
				p.mu.Lock()
				p.stops++
				p.mu.Unlock()
			}), nil
		})
}

func at(sec int) *time.Time {
	t := time.Date(2024, 1, 1, 12, 0, sec, 0, time.UTC)
	return &t
}

func TestStart_LoadingThenReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	assert.Equal(t, StatusLoading, e.State().Status)

	first := gateway.Message{ID: "1", Text: "hi", Author: me, CreatedAt: at(1)}
	p.snapshot(first)

	st := e.State()
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, []gateway.Message{first}, st.Messages)
}

func TestSnapshots_ReplaceWholesaleInDeliveredOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	a := gateway.Message{ID: "a", Text: "one", CreatedAt: at(1)}
	b := gateway.Message{ID: "b", Text: "two", CreatedAt: at(2)}
	c := gateway.Message{ID: "c", Text: "three"}

	snapshots := [][]gateway.Message{
		{a},
		{a, b},
		// Out of timestamp order on purpose: delivery order is kept as is.
		{c, b, a},
		{b},
		{},
	}
	for _, s := range snapshots {
		p.snapshot(s...)
		assert.Equal(t, s, append([]gateway.Message{}, e.State().Messages...))
	}
}

func TestStart_Twice(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p).Times(1)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	assert.ErrorIs(t, e.Start(context.Background(), me), ErrInvalidState)
}

func TestStart_EmptyIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)

	e := New(msgs, nil, Options{})
	assert.ErrorIs(t, e.Start(context.Background(), "  "), ErrInvalidIdentity)
}

func TestStart_SubscribeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	boom := errors.New("permission denied")
	msgs.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))

	st := e.State()
	assert.Equal(t, StatusError, st.Status)
	assert.ErrorIs(t, st.Err, boom)

	// No retry, and the engine stays started until Stop.
	assert.ErrorIs(t, e.Start(context.Background(), me), ErrInvalidState)
	e.Stop()
}

func TestSubscriptionError_KeepsMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	m := gateway.Message{ID: "1", Text: "hi"}
	p.snapshot(m)
	p.fail(errors.New("unavailable"))

	st := e.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, []gateway.Message{m}, st.Messages)
}

func TestStop_IgnoresStalePushes(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	p.snapshot(gateway.Message{ID: "1", Text: "hi"})

	e.Stop()
	before := e.State()

	for i := 0; i < 5; i++ {
		p.snapshot(gateway.Message{ID: "late", Text: "late"})
		p.fail(errors.New("late error"))
	}

	assert.Equal(t, before, e.State())
	assert.Equal(t, 1, p.stops)
}

func TestStop_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	e := New(msgs, nil, Options{})
	e.Stop()

	require.NoError(t, e.Start(context.Background(), me))
	e.Stop()
	e.Stop()
	assert.Equal(t, 1, p.stops)
}

func TestRestart_IgnoresPreviousSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	old, cur := &pushed{}, &pushed{}
	gomock.InOrder(expectSubscribe(msgs, old), expectSubscribe(msgs, cur))

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	e.Stop()
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	assert.Equal(t, StatusLoading, e.State().Status)
	assert.Empty(t, e.State().Messages)

	old.snapshot(gateway.Message{ID: "stale"})
	assert.Equal(t, StatusLoading, e.State().Status)

	cur.snapshot(gateway.Message{ID: "fresh"})
	require.Len(t, e.State().Messages, 1)
	assert.Equal(t, "fresh", e.State().Messages[0].ID)
}

func TestSend_EmptyDraftIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)
	msgs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	before := e.State()
	require.NoError(t, e.Send(context.Background()))
	e.SetDraftText("   \n")
	require.NoError(t, e.Send(context.Background()))

	assert.Equal(t, before.Messages, e.State().Messages)
	assert.Equal(t, "   \n", e.State().DraftText)
}

func TestSend_NotStarted(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Send(context.Background()))

	e.SetDraftText("hello")
	assert.ErrorIs(t, e.Send(context.Background()), ErrNotStarted)
	assert.Equal(t, "hello", e.State().DraftText)
}

func TestSend_TextSuccess(t *testing.T) {
	gw := memgw.New()
	e := New(gw, gw, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.SetDraftText("hello")
	require.NoError(t, e.Send(context.Background()))

	st := e.State()
	assert.Equal(t, "", st.DraftText)
	assert.False(t, st.HasDraftImage())
	require.Len(t, st.Messages, 1)
	assert.Equal(t, "hello", st.Messages[0].Text)
	assert.Equal(t, me, st.Messages[0].Author)
	assert.Empty(t, st.Messages[0].Image)
	assert.NotNil(t, st.Messages[0].CreatedAt)
}

func TestSend_ImageOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)
	msgs.EXPECT().
		Append(gomock.Any(), DefaultCollection, gateway.NewMessage{Text: "", Author: me, Image: "QkJC"}).
		Return("doc-1", nil)

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.AttachImage("QkJC")
	require.NoError(t, e.Send(context.Background()))
	assert.False(t, e.State().HasDraftImage())
}

func TestSend_FailureKeepsDraft(t *testing.T) {
	gw := memgw.New()
	e := New(gw, gw, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	gw.FailAppends(errors.New("offline"))
	e.SetDraftText("hello")
	e.AttachImage("QkJC")

	err := e.Send(context.Background())
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Contains(t, sendErr.Error(), "offline")

	st := e.State()
	assert.Equal(t, "hello", st.DraftText)
	assert.Equal(t, "QkJC", st.DraftImage)
	assert.Empty(t, st.Messages)

	gw.FailAppends(nil)
	require.NoError(t, e.Send(context.Background()))
	assert.Len(t, e.State().Messages, 1)
}

func TestSend_CapturesDraftAtCallTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	entered := make(chan struct{})
	release := make(chan struct{})
	msgs.EXPECT().
		Append(gomock.Any(), DefaultCollection, gateway.NewMessage{Text: "first", Author: me}).
		DoAndReturn(func(context.Context, string, gateway.NewMessage) (string, error) {
			close(entered)
			<-release
			return "doc-1", nil
		})

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.SetDraftText("first")
	done := make(chan error, 1)
	go func() { done <- e.Send(context.Background()) }()

	<-entered
	e.SetDraftText("second")
	e.AttachImage("QkJC")
	close(release)
	require.NoError(t, <-done)

	st := e.State()
	assert.Equal(t, "second", st.DraftText)
	assert.Equal(t, "QkJC", st.DraftImage)
}

func TestSend_CompletesAfterStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)

	entered := make(chan struct{})
	release := make(chan struct{})
	msgs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, gateway.NewMessage) (string, error) {
			close(entered)
			<-release
			return "doc-1", nil
		})

	e := New(msgs, nil, Options{})
	require.NoError(t, e.Start(context.Background(), me))

	e.SetDraftText("bye")
	done := make(chan error, 1)
	go func() { done <- e.Send(context.Background()) }()

	<-entered
	e.Stop()
	close(release)

	assert.NoError(t, <-done)
	assert.Equal(t, "bye", e.State().DraftText)
}

func TestSend_OffloadsLargeImage(t *testing.T) {
	gw := memgw.New()
	e := New(gw, gw, Options{InlineImageLimit: 8})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	raw := []byte("\xff\xd8\xff\xe0 not really a jpeg")
	e.AttachImage(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, e.Send(context.Background()))

	st := e.State()
	require.Len(t, st.Messages, 1)
	m := st.Messages[0]
	assert.Empty(t, m.Image)
	require.True(t, strings.HasPrefix(m.ImageURL, "mem://"))

	stored, ok := gw.Blob(strings.TrimPrefix(m.ImageURL, "mem://"))
	require.True(t, ok)
	assert.Equal(t, raw, stored)
}

func TestSend_InlineWhenNoBlobs(t *testing.T) {
	gw := memgw.New()
	e := New(gw, nil, Options{InlineImageLimit: 2})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.AttachImage("QkJCQkJC")
	require.NoError(t, e.Send(context.Background()))
	assert.Equal(t, "QkJCQkJC", e.State().Messages[0].Image)
}

func TestSend_OffloadUploadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessages(ctrl)
	blobs := mocks.NewMockBlobs(ctrl)
	p := &pushed{}
	expectSubscribe(msgs, p)
	blobs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("quota"))
	msgs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	e := New(msgs, blobs, Options{InlineImageLimit: 1})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.AttachImage("QkJC")
	var sendErr *SendError
	require.ErrorAs(t, e.Send(context.Background()), &sendErr)
	assert.Equal(t, "QkJC", e.State().DraftImage)
}

func TestDraftMutations(t *testing.T) {
	e := New(memgw.New(), nil, Options{})

	e.SetDraftText("abc")
	e.AttachImage("QkJC")
	st := e.State()
	assert.True(t, st.CanSend())
	assert.Equal(t, "QkJC", st.DraftImage)

	e.ClearImage()
	e.SetDraftText("")
	assert.False(t, e.State().CanSend())
	assert.Equal(t, DefaultMaxLength, e.MaxLength())
}

func TestOnChange_ReceivesLatestState(t *testing.T) {
	gw := memgw.New()
	var (
		mu     sync.Mutex
		states []State
	)
	e := New(gw, gw, Options{OnChange: func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}})

	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()
	e.SetDraftText("yo")
	require.NoError(t, e.Send(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	last := states[len(states)-1]
	assert.Equal(t, StatusReady, last.Status)
	assert.Len(t, last.Messages, 1)
	assert.Equal(t, "", last.DraftText)
}

func TestState_IsACopy(t *testing.T) {
	gw := memgw.New()
	e := New(gw, gw, Options{})
	require.NoError(t, e.Start(context.Background(), me))
	defer e.Stop()

	e.SetDraftText("x")
	require.NoError(t, e.Send(context.Background()))

	st := e.State()
	st.Messages[0].Text = "tampered"
	assert.Equal(t, "x", e.State().Messages[0].Text)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
