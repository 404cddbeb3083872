package stream

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Subscribe(ctx)
	b := s.Subscribe(ctx)

	evt := BookingEvent{ID: "01A", FullName: "Jane Builder", Status: "pending", CreatedAt: time.Now()}
	s.Publish(evt)

	for name, ch := range map[string]<-chan BookingEvent{"a": a, "b": b} {
		select {
		case got := <-ch:
			if got.ID != evt.ID {
				t.Fatalf("subscriber %s got %+v", name, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s never received the event", name)
		}
	}
}

func TestSubscribeClosesOnContextEnd(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}

	// Publishing after the subscriber left must not panic or block.
	s.Publish(BookingEvent{ID: "01B"})
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	// Overfill the buffer; extra events are dropped, not blocking.
	for i := 0; i < 64; i++ {
		s.Publish(BookingEvent{ID: "evt"})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			if drained == 0 || drained > 16 {
				t.Fatalf("drained %d events, want 1..16", drained)
			}
			return
		}
	}
}
