package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"buildpro.org/internal/obs"
)

// State identifies where the booking flow currently is.
type State int

const (
	// StateSelectingService is the quote flow's opening step.
	StateSelectingService State = iota
	// StateEnteringDetails is the contact form step. The schedule flow
	// starts and stays here; there is no separate selection step.
	StateEnteringDetails
	// StateSubmitting covers the store call. Submit is a no-op while the
	// workflow is in this state.
	StateSubmitting
)

// NoticeKind tags the outcome surfaced after a submission resolves.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSucceeded
	NoticeFailed
)

// Notice is the user-visible acknowledgment of a resolved submission.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Details carries every form field except the service selection, which is
// owned by the Select/Back transitions.
type Details struct {
	FullName      string
	Email         string
	Phone         string
	Message       string
	ScheduledDate string
	ScheduledTime string
}

// ErrSubmitInFlight is returned when Submit is called while an earlier
// submission has not yet resolved.
var ErrSubmitInFlight = errors.New("submission already in flight")

const noticeDismissAfter = 5 * time.Second

// Workflow drives the booking form through its states: service selection,
// detail entry, submission, and the success/failure acknowledgment. All
// methods are safe for concurrent use; the submitting guard is the only
// coordination the flow needs.
type Workflow struct {
	flow  Flow
	store Store

	dismissAfter time.Duration

	mu          sync.Mutex
	state       State
	service     string
	details     Details
	notice      Notice
	noticeTimer *time.Timer
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithDismissAfter overrides the success-notice auto-dismiss delay.
func WithDismissAfter(d time.Duration) WorkflowOption {
	return func(w *Workflow) {
		if d > 0 {
			w.dismissAfter = d
		}
	}
}

// NewWorkflow creates a workflow in the flow's initial state.
func NewWorkflow(flow Flow, store Store, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		flow:         flow,
		store:        store,
		dismissAfter: noticeDismissAfter,
		state:        initialState(flow),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func initialState(flow Flow) State {
	if flow == FlowQuote {
		return StateSelectingService
	}
	return StateEnteringDetails
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Service returns the currently selected service, if any.
func (w *Workflow) Service() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.service
}

// Details returns a copy of the entered form fields.
func (w *Workflow) Details() Details {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.details
}

// Notice returns the pending acknowledgment, if any.
func (w *Workflow) Notice() Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notice
}

// Select records the chosen service and advances to detail entry. In the
// quote flow this is the only way to leave the selection step. No network
// call is made.
func (w *Workflow) Select(service string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return
	}
	w.service = service
	if w.state == StateSelectingService {
		w.state = StateEnteringDetails
	}
}

// Back clears the service selection only and returns to the selection
// step. Previously entered contact fields are retained as entered.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.flow != FlowQuote || w.state != StateEnteringDetails {
		return
	}
	w.service = ""
	w.state = StateSelectingService
}

// SetDetails replaces the entered form fields. The service selection is
// untouched.
func (w *Workflow) SetDetails(d Details) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return
	}
	w.details = d
}

// Submit validates the form and, on success, writes the record to the
// store. Validation failures surface their message and never reach the
// store. Store failures surface a generic message and preserve the entered
// fields for retry; success clears the form, resets the flow to its
// initial state, and raises an auto-dismissing success notice.
func (w *Workflow) Submit(ctx context.Context) (Appointment, error) {
	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return Appointment{}, ErrSubmitInFlight
	}

	now := time.Now()
	sub := w.submission()
	if err := Validate(w.flow, sub, now); err != nil {
		// User-correctable; the form stays where it is and no store
		// call is attempted.
		w.mu.Unlock()
		return Appointment{}, err
	}

	w.state = StateSubmitting
	rec := sub.Record(w.flow, now)
	w.mu.Unlock()

	apt, err := w.store.Insert(ctx, rec)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		// Environmental failure: keep the fields, log the detail,
		// show only a generic message.
		obs.LogRequest(map[string]any{
			"level": "error",
			"msg":   "appointment insert failed",
			"error": err.Error(),
		})
		w.state = StateEnteringDetails
		w.setNotice(Notice{
			Kind:    NoticeFailed,
			Message: "There was an error submitting your request. Please try again.",
		})
		return Appointment{}, err
	}

	w.service = ""
	w.details = Details{}
	w.state = initialState(w.flow)
	w.setNotice(Notice{
		Kind:    NoticeSucceeded,
		Message: "Your request has been submitted successfully! We'll be in touch within 24 hours to discuss your project.",
	})
	return apt, nil
}

// Dismiss clears the pending notice, cancelling the auto-dismiss timer.
func (w *Workflow) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clearNotice()
}

// setNotice installs a notice; success notices auto-dismiss. Callers hold mu.
func (w *Workflow) setNotice(n Notice) {
	w.clearNotice()
	w.notice = n
	if n.Kind == NoticeSucceeded {
		w.noticeTimer = time.AfterFunc(w.dismissAfter, w.Dismiss)
	}
}

func (w *Workflow) clearNotice() {
	if w.noticeTimer != nil {
		w.noticeTimer.Stop()
		w.noticeTimer = nil
	}
	w.notice = Notice{}
}

func (w *Workflow) submission() Submission {
	return Submission{
		FullName:      w.details.FullName,
		Email:         w.details.Email,
		Phone:         w.details.Phone,
		Service:       w.service,
		Message:       w.details.Message,
		ScheduledDate: w.details.ScheduledDate,
		ScheduledTime: w.details.ScheduledTime,
	}
}
