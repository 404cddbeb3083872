package booking

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle tag of an appointment. New records are always
// pending; confirmation and cancellation happen through an administrative
// process outside this service, so no code here mutates a stored record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Appointment is the sole persisted entity. ID, CreatedAt and Status are
// assigned by the store on insert and never by the caller.
type Appointment struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Service     *string   `json:"service,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Message     *string   `json:"message,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record is the write shape accepted by the store.
type Record struct {
	FullName    string
	Email       string
	Phone       *string
	Service     *string
	ScheduledAt time.Time
	Message     *string
}

// Store is the record store holding appointment rows. Inserted records are
// write-once; List returns all rows ordered by creation time descending.
type Store interface {
	Insert(ctx context.Context, rec Record) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	Ping(ctx context.Context) error
}

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("record store unavailable")
)

// ValidationError is a user-correctable input error. Its text is shown to
// the user verbatim and is never logged as a system fault.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// IsValidation reports whether err originated from submission validation.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
