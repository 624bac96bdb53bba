// Package broadcast fans values out to independently-paced
// subscribers. Publishing never blocks: a subscriber whose buffer is
// full simply misses that value, which is acceptable for replaceable
// payloads like depth snapshots.
package broadcast

import "sync"

// Subscription receives broadcast values until unsubscribed.
type Subscription[T any] struct {
	ch chan T
}

// C is the subscriber's receive channel. It is closed on unsubscribe.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Hub tracks a set of subscribers for one stream.
type Hub[T any] struct {
	mu   sync.RWMutex
	subs map[*Subscription[T]]struct{}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscribe registers a new subscriber with the given buffer depth.
func (h *Hub[T]) Subscribe(buffer int) *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, buffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

// Broadcast delivers value to every subscriber with buffer space and
// drops it for the rest. The publisher is never blocked by a slow
// reader.
func (h *Hub[T]) Broadcast(value T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- value:
		default:
		}
	}
}
