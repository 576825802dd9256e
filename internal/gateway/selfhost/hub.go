package selfhost

import (
	"context"
	"log/slog"
	"sync"
)

// ChangeEvent announces a committed write to a collection.
type ChangeEvent struct {
	Collection string
	Seq        uint64
}

// Observer receives change events from a Hub.
type Observer interface {
	Name() string
	Update(event ChangeEvent) error
}

// Hub fans change events out to observers on a small worker pool.
type Hub struct {
	observers    map[string]Observer
	eventChannel chan ChangeEvent
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
	log          *slog.Logger
}

func NewHub(workerPoolSize int) *Hub {
	if workerPoolSize < 1 {
		workerPoolSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		observers:    make(map[string]Observer),
		eventChannel: make(chan ChangeEvent, 256),
		ctx:          ctx,
		cancel:       cancel,
		log:          slog.Default().With("component", "selfhost.hub"),
	}

	for i := 0; i < workerPoolSize; i++ {
		h.wg.Add(1)
		go h.processEvents()
	}
	return h
}

func (h *Hub) Subscribe(observer Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[observer.Name()] = observer
	h.log.Debug("observer subscribed", "observer", observer.Name())
}

func (h *Hub) Unsubscribe(observer Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.observers, observer.Name())
	h.log.Debug("observer unsubscribed", "observer", observer.Name())
}

// Notify delivers event to every observer on the calling goroutine.
func (h *Hub) Notify(event ChangeEvent) {
	h.mu.RLock()
	observers := make([]Observer, 0, len(h.observers))
	for _, obs := range h.observers {
		observers = append(observers, obs)
	}
	h.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			h.log.Warn("observer update failed", "observer", observer.Name(), "err", err)
		}
	}
}

// NotifyAsync queues event for the workers. A full queue drops the event;
// subscribers still pick the write up on their next poll.
func (h *Hub) NotifyAsync(event ChangeEvent) {
	select {
	case h.eventChannel <- event:
	case <-h.ctx.Done():
	default:
		h.log.Warn("change channel full, dropping event", "collection", event.Collection)
	}
}

func (h *Hub) processEvents() {
	defer h.wg.Done()

	for {
		select {
		case event := <-h.eventChannel:
			h.Notify(event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Queued events are dropped.
func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}
