// Package events is a small in-process fan-out for diagnostic lookup
// events, consumed by the websocket stream endpoint.
package events

import (
	"sync"
	"time"
)

type Type string

const (
	TypeCacheHit        Type = "cache_hit"
	TypeCacheMiss       Type = "cache_miss"
	TypeCacheFilled     Type = "cache_filled"
	TypeFetchFailed     Type = "fetch_failed"
	TypeLookupExhausted Type = "lookup_exhausted"
)

type Event struct {
	Type       Type      `json:"type"`
	ServiceTag string    `json:"service_tag"`
	Source     string    `json:"source,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

const subscriberBuffer = 16

type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[chan Event]struct{}{}}
}

// Publish delivers the event to every subscriber without blocking; a
// subscriber with a full buffer misses the event.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a listener. The returned cancel func must be called
// when done; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}
