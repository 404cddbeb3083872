// Package listing is the read model behind the admin dashboard: the
// ordered appointment list plus the per-row expand/collapse state.
package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"buildpro.org/internal/booking"
)

// displayFormat matches the dashboard's date rendering, e.g.
// "January 2, 2026 03:04 PM".
const displayFormat = "January 2, 2006 03:04 PM"

// Row is the collapsed rendering of one appointment.
type Row struct {
	ID       string         `json:"id"`
	FullName string         `json:"full_name"`
	BookedOn string         `json:"booked_on"`
	Status   booking.Status `json:"status"`
	Expanded bool           `json:"expanded"`
	Detail   *Detail        `json:"detail,omitempty"`
}

// Detail is the expanded rendering. Phone and Service are omitted
// entirely when the record has none, rather than shown blank.
type Detail struct {
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Service     string `json:"service,omitempty"`
	ScheduledAt string `json:"scheduled_at"`
}

// View fetches and holds the appointment sequence and tracks which rows
// are expanded. Expansion is a set keyed by record id so that toggling
// one row never affects another.
type View struct {
	store booking.Store

	mu       sync.Mutex
	items    []booking.Appointment
	expanded map[string]struct{}
}

// New creates an empty view over the given store.
func New(store booking.Store) *View {
	return &View{
		store:    store,
		expanded: make(map[string]struct{}),
	}
}

// Refresh fetches all appointments, newest first. On failure the list is
// left empty and the error is returned for a non-fatal notification; the
// view itself stays usable.
func (v *View) Refresh(ctx context.Context) error {
	items, err := v.store.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.items = nil
		return fmt.Errorf("fetch appointments: %w", err)
	}
	v.items = items
	return nil
}

// Toggle flips one row's expanded state and reports the new state.
func (v *View) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.expanded[id]; ok {
		delete(v.expanded, id)
		return false
	}
	v.expanded[id] = struct{}{}
	return true
}

// IsExpanded reports one row's state; rows default to collapsed.
func (v *View) IsExpanded(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.expanded[id]
	return ok
}

// Len returns the number of fetched rows.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Rows renders the current list. Expanded rows carry their detail pane.
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]Row, 0, len(v.items))
	for _, apt := range v.items {
		row := Row{
			ID:       apt.ID,
			FullName: apt.FullName,
			BookedOn: formatDate(apt.CreatedAt),
			Status:   apt.Status,
		}
		if _, ok := v.expanded[apt.ID]; ok {
			row.Expanded = true
			row.Detail = detailFor(apt)
		}
		rows = append(rows, row)
	}
	return rows
}

func detailFor(apt booking.Appointment) *Detail {
	d := &Detail{
		Email:       apt.Email,
		ScheduledAt: formatDate(apt.ScheduledAt),
	}
	if apt.Phone != nil {
		d.Phone = *apt.Phone
	}
	if apt.Service != nil {
		d.Service = *apt.Service
	}
	return d
}

func formatDate(t time.Time) string {
	return t.Format(displayFormat)
}
