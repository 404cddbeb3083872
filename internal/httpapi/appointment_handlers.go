package httpapi

import (
	"net/http"
	"time"

	"buildpro.org/internal/audit"
	"buildpro.org/internal/booking"
	"buildpro.org/internal/obs"
	"buildpro.org/internal/stream"
)

// submitFailedMessage is shown to the user whenever the store rejects a
// valid submission. The underlying error goes to the log only.
const submitFailedMessage = "There was an error submitting your request. Please try again."

type createAppointmentRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Service       string `json:"service"`
	Message       string `json:"message"`
	ScheduledAt   string `json:"scheduled_at,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
}

type listAppointmentsResponse struct {
	Items []booking.Appointment `json:"items"`
	AsOf  time.Time             `json:"as_of"`
}

func (a *API) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	resp := map[string]any{
		"flow":     string(a.flow),
		"services": booking.Catalog(a.flow),
	}
	if a.flow == booking.FlowSchedule {
		resp["time_slots"] = booking.TimeSlots()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createAppointment(w, r)
	case http.MethodGet:
		a.listAppointments(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sub := booking.Submission{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Service:       req.Service,
		Message:       req.Message,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "scheduled_at must be RFC3339")
			return
		}
		sub.ScheduledAt = &at
	}

	now := time.Now()
	if err := booking.Validate(a.flow, sub, now); err != nil {
		obs.CountRejection("validation")
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	apt, err := a.store.Insert(r.Context(), sub.Record(a.flow, now))
	if err != nil {
		obs.CountRejection("store")
		obs.LogRequest(map[string]any{
			"ts":         time.Now().UTC().Format(time.RFC3339Nano),
			"level":      "error",
			"msg":        "appointment insert failed",
			"error":      err.Error(),
			"request_id": RequestIDFromContext(r.Context()),
		})
		writeError(w, r, http.StatusInternalServerError, submitFailedMessage)
		return
	}

	obs.CountSubmission(string(a.flow))
	_ = audit.LogEvent(r.Context(), "booking.appointment.submit", map[string]any{
		"appointment_id": apt.ID,
		"flow":           string(a.flow),
	})

	evt := stream.BookingEvent{
		ID:        apt.ID,
		FullName:  apt.FullName,
		Status:    string(apt.Status),
		CreatedAt: apt.CreatedAt,
	}
	if apt.Service != nil {
		evt.Service = *apt.Service
	}
	a.strm.Publish(evt)

	w.Header().Set("Location", "/v1/appointments")
	writeJSON(w, http.StatusCreated, apt)
}

func (a *API) listAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}

	items, err := a.store.List(ctx)
	if err != nil {
		obs.LogRequest(map[string]any{
			"ts":         time.Now().UTC().Format(time.RFC3339Nano),
			"level":      "error",
			"msg":        "appointment list failed",
			"error":      err.Error(),
			"request_id": RequestIDFromContext(ctx),
		})
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}
	if items == nil {
		items = []booking.Appointment{}
	}
	writeJSON(w, http.StatusOK, listAppointmentsResponse{
		Items: items,
		AsOf:  time.Now().UTC(),
	})
}
