package pg

import (
	"context"
	"fmt"

	"buildpro.org/internal/booking"
	"buildpro.org/internal/ids"
)

var _ booking.Store = (*Store)(nil)

// Insert writes one appointment row. The id, created_at and status come
// from here and the database, never from the caller.
func (s *Store) Insert(ctx context.Context, rec booking.Record) (booking.Appointment, error) {
	apt := booking.Appointment{
		ID:          ids.New(),
		FullName:    rec.FullName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Service:     rec.Service,
		ScheduledAt: rec.ScheduledAt,
		Message:     rec.Message,
		Status:      booking.StatusPending,
	}

	err := s.db.QueryRowContext(ctx, `
		insert into appointments(id, full_name, email, phone, service, scheduled_at, message, status)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
		returning created_at
	`, apt.ID, apt.FullName, apt.Email, apt.Phone, apt.Service, apt.ScheduledAt, apt.Message, string(apt.Status)).
		Scan(&apt.CreatedAt)
	if err != nil {
		return booking.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return apt, nil
}

// List returns every appointment ordered by creation time descending.
func (s *Store) List(ctx context.Context) ([]booking.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, full_name, email, phone, service, scheduled_at, message, status, created_at
		from appointments
		order by created_at desc
	`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []booking.Appointment
	for rows.Next() {
		var apt booking.Appointment
		if err := rows.Scan(
			&apt.ID, &apt.FullName, &apt.Email, &apt.Phone, &apt.Service,
			&apt.ScheduledAt, &apt.Message, &apt.Status, &apt.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, apt)
	}
	return out, rows.Err()
}
