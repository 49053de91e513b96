package events

import (
	"context"
	"sync"

	"vision_runner/internal/models"
)

const defaultSubscriberBuffer = 16

// Hub fans activity events out to live subscribers (websocket clients).
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan models.ActivityEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan models.ActivityEvent)}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan models.ActivityEvent, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan models.ActivityEvent, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(_ context.Context, e models.ActivityEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
