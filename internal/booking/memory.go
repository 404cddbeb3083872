package booking

import (
	"context"
	"sync"
	"time"

	"buildpro.org/internal/ids"
)

// InMemory implements Store with in-process concurrency safety. It backs
// tests and deployments without a configured database.
type InMemory struct {
	mu   sync.RWMutex
	recs []Appointment
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Insert(ctx context.Context, rec Record) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apt := Appointment{
		ID:          ids.New(),
		FullName:    rec.FullName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Service:     rec.Service,
		ScheduledAt: rec.ScheduledAt,
		Message:     rec.Message,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.recs = append(s.recs, apt)
	return apt, nil
}

// List returns all appointments ordered by creation time descending.
func (s *InMemory) List(ctx context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, len(s.recs))
	for i, apt := range s.recs {
		out[len(s.recs)-1-i] = apt
	}
	return out, nil
}

func (s *InMemory) Ping(ctx context.Context) error { return nil }
