package booking

import (
	"testing"
	"time"
)

func validQuoteSubmission() Submission {
	return Submission{
		FullName: "Jane Builder",
		Email:    "jane@example.com",
		Phone:    "+1 555 0100",
		Service:  "Roofing Services",
		Message:  "Need a full roof replacement.",
	}
}

func validScheduleSubmission() Submission {
	return Submission{
		FullName:      "Jane Builder",
		Email:         "jane@example.com",
		Service:       "Consultation",
		ScheduledDate: "2026-09-15",
		ScheduledTime: "10:00",
	}
}

func TestValidateQuoteRequiredFieldsInOrder(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{"missing name", func(s *Submission) { s.FullName = "" }, "Full name is required"},
		{"whitespace name", func(s *Submission) { s.FullName = "   " }, "Full name is required"},
		{"missing email", func(s *Submission) { s.Email = "" }, "Email is required"},
		{"missing phone", func(s *Submission) { s.Phone = "" }, "Phone number is required"},
		{"missing service", func(s *Submission) { s.Service = "" }, "Please select a service"},
		{"unknown service", func(s *Submission) { s.Service = "Time Travel" }, "Please select a service"},
		{"bad email", func(s *Submission) { s.Email = "not-an-email" }, "Please enter a valid email"},
		{"email without tld", func(s *Submission) { s.Email = "user@host" }, "Please enter a valid email"},
		{"email with space", func(s *Submission) { s.Email = "user name@host.com" }, "Please enter a valid email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validQuoteSubmission()
			tc.mutate(&sub)
			err := Validate(FlowQuote, sub, now)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if err.Error() != tc.want {
				t.Fatalf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}

	if err := Validate(FlowQuote, validQuoteSubmission(), now); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestValidatePriorityOrder(t *testing.T) {
	// Everything is wrong at once; the name rule must win.
	now := time.Now()
	sub := Submission{Email: "broken", Service: "Nope"}
	err := Validate(FlowQuote, sub, now)
	if err == nil || err.Error() != "Full name is required" {
		t.Fatalf("got %v, want name error first", err)
	}
}

func TestValidateScheduleFlow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("phone optional", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.Phone = ""
		if err := Validate(FlowSchedule, sub, now); err != nil {
			t.Fatalf("schedule flow must not require phone: %v", err)
		}
	})

	t.Run("date required", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate = ""
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Please select a date" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("time required", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledTime = ""
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Please select a time" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("past slot rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate = "2026-08-28"
		sub.ScheduledTime = "11:00"
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Appointment must be scheduled for a future date and time" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("exactly now rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate = "2026-08-28"
		sub.ScheduledTime = "12:00"
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Appointment must be scheduled for a future date and time" {
			t.Fatalf("boundary instant must not pass: %v", err)
		}
	})

	t.Run("later same day accepted", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate = "2026-08-28"
		sub.ScheduledTime = "13:00"
		if err := Validate(FlowSchedule, sub, now); err != nil {
			t.Fatalf("future slot rejected: %v", err)
		}
	})

	t.Run("off-slot time rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledTime = "03:27"
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Please select a time" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("half-hour time rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledTime = "10:30"
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Please select a time" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("out-of-hours wire instant rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate, sub.ScheduledTime = "", ""
		for _, at := range []time.Time{
			time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 15, 10, 0, 30, 0, time.UTC),
		} {
			at := at
			sub.ScheduledAt = &at
			err := Validate(FlowSchedule, sub, now)
			if err == nil || err.Error() != "Please select a time" {
				t.Fatalf("instant %v: got %v", at, err)
			}
		}
	})

	t.Run("on-slot wire instant accepted", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.ScheduledDate, sub.ScheduledTime = "", ""
		at := time.Date(2026, 9, 15, 17, 0, 0, 0, time.UTC)
		sub.ScheduledAt = &at
		if err := Validate(FlowSchedule, sub, now); err != nil {
			t.Fatalf("closing slot rejected: %v", err)
		}
	})

	t.Run("quote-only service rejected", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.Service = "Landscaping"
		err := Validate(FlowSchedule, sub, now)
		if err == nil || err.Error() != "Please select a service" {
			t.Fatalf("got %v", err)
		}
	})
}

func TestRecordShapes(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("quote defaults scheduled_at to now", func(t *testing.T) {
		sub := validQuoteSubmission()
		sub.FullName = "  Jane Builder  "
		rec := sub.Record(FlowQuote, now)
		if rec.FullName != "Jane Builder" {
			t.Fatalf("name not trimmed: %q", rec.FullName)
		}
		if !rec.ScheduledAt.Equal(now) {
			t.Fatalf("scheduled_at = %v, want %v", rec.ScheduledAt, now)
		}
		if rec.Phone == nil || *rec.Phone != "+1 555 0100" {
			t.Fatalf("phone pointer wrong: %v", rec.Phone)
		}
	})

	t.Run("empty optionals stay nil", func(t *testing.T) {
		sub := validScheduleSubmission()
		sub.Phone = "   "
		sub.Message = ""
		rec := sub.Record(FlowSchedule, now)
		if rec.Phone != nil {
			t.Fatalf("blank phone must be nil, got %q", *rec.Phone)
		}
		if rec.Message != nil {
			t.Fatalf("blank message must be nil, got %q", *rec.Message)
		}
		want := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
		if !rec.ScheduledAt.Equal(want) {
			t.Fatalf("scheduled_at = %v, want %v", rec.ScheduledAt, want)
		}
	})
}

func TestCatalogPerFlow(t *testing.T) {
	if got := len(Catalog(FlowQuote)); got != 10 {
		t.Fatalf("quote catalog has %d services, want 10", got)
	}
	if got := len(Catalog(FlowSchedule)); got != 4 {
		t.Fatalf("schedule catalog has %d services, want 4", got)
	}
	if got := len(TimeSlots()); got != 9 {
		t.Fatalf("schedule has %d slots, want 9", got)
	}
	// Returned slices are copies; mutating them must not leak back.
	Catalog(FlowQuote)[0] = "mutated"
	if Catalog(FlowQuote)[0] != "Residential Construction" {
		t.Fatal("catalog mutated through returned slice")
	}
}
