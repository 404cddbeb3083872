package booking

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern matches local@domain.tld: no whitespace, exactly one @,
// at least one dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission carries the raw form input of either flow. ScheduledDate and
// ScheduledTime come from the schedule flow's pickers; ScheduledAt is set
// instead when the caller already resolved an instant (wire submissions).
type Submission struct {
	FullName      string
	Email         string
	Phone         string
	Service       string
	Message       string
	ScheduledDate string // 2006-01-02
	ScheduledTime string // 15:04
	ScheduledAt   *time.Time
}

// Validate checks a submission against the rules of the given flow.
// Rules run in a fixed priority order and the first failure wins. The
// returned ValidationError text is the message surfaced to the user.
// Pure function of the input and the supplied current time.
func Validate(flow Flow, sub Submission, now time.Time) error {
	if strings.TrimSpace(sub.FullName) == "" {
		return ValidationError("Full name is required")
	}
	if strings.TrimSpace(sub.Email) == "" {
		return ValidationError("Email is required")
	}
	if flow == FlowQuote && strings.TrimSpace(sub.Phone) == "" {
		return ValidationError("Phone number is required")
	}
	if sub.Service == "" || !knownService(flow, sub.Service) {
		return ValidationError("Please select a service")
	}
	if flow == FlowSchedule && sub.ScheduledAt == nil {
		if sub.ScheduledDate == "" {
			return ValidationError("Please select a date")
		}
		if sub.ScheduledTime == "" {
			return ValidationError("Please select a time")
		}
	}
	if !emailPattern.MatchString(sub.Email) {
		return ValidationError("Please enter a valid email")
	}
	if flow == FlowSchedule {
		at, err := sub.scheduledInstant(now)
		if err != nil || !at.After(now) {
			return ValidationError("Appointment must be scheduled for a future date and time")
		}
		if !bookableSlot(at) {
			return ValidationError("Please select a time")
		}
	}
	return nil
}

// scheduledInstant resolves the requested appointment time. The quote flow
// has no picker and defaults to the submission instant.
func (s Submission) scheduledInstant(now time.Time) (time.Time, error) {
	if s.ScheduledAt != nil {
		return *s.ScheduledAt, nil
	}
	if s.ScheduledDate == "" && s.ScheduledTime == "" {
		return now, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s.ScheduledDate+" "+s.ScheduledTime, now.Location())
}

// Record converts a validated submission into the store write shape.
// Validate must have been called first; Record trusts its input.
func (s Submission) Record(flow Flow, now time.Time) Record {
	rec := Record{
		FullName: strings.TrimSpace(s.FullName),
		Email:    strings.TrimSpace(s.Email),
	}
	if p := strings.TrimSpace(s.Phone); p != "" {
		rec.Phone = &p
	}
	if s.Service != "" {
		svc := s.Service
		rec.Service = &svc
	}
	if m := strings.TrimSpace(s.Message); m != "" {
		rec.Message = &m
	}
	at, err := s.scheduledInstant(now)
	if err != nil || flow == FlowQuote && s.ScheduledAt == nil {
		at = now
	}
	rec.ScheduledAt = at.UTC()
	return rec
}
