// Package stream fan-outs new-booking events to the admin dashboard's
// live feed (SSE subscribers).
package stream

import (
	"context"
	"sync"
	"time"
)

// BookingEvent announces a newly stored appointment. It carries only what
// the dashboard row needs; the full record comes from the listing fetch.
type BookingEvent struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Service   string    `json:"service,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stream fan-outs booking events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan BookingEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{
		subs: make(map[int]chan BookingEvent),
	}
}

// Subscribe registers a subscriber and returns a channel which will
// receive events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan BookingEvent {
	ch := make(chan BookingEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt BookingEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
