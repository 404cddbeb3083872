package booking

import "time"

// Flow selects one of the two booking profiles shipped by the product: the
// quote flow (service quiz, contact details, scheduled for "now") and the
// schedule flow (single form with a user-chosen future date and time).
type Flow string

const (
	FlowQuote    Flow = "quote"
	FlowSchedule Flow = "schedule"
)

// quoteServices is the full catalog offered by the quote flow.
var quoteServices = []string{
	"Residential Construction",
	"Commercial Construction",
	"Renovations & Remodeling",
	"Foundation Work",
	"Roofing Services",
	"Electrical Installation",
	"Plumbing Services",
	"Consultation",
	"HVAC Systems",
	"Landscaping",
}

// scheduleServices is the reduced catalog used by the schedule flow.
var scheduleServices = []string{
	"Residential Construction",
	"Commercial Construction",
	"Renovations & Remodeling",
	"Consultation",
}

// scheduleSlots enumerates the bookable start times, hourly 09:00-17:00.
var scheduleSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

// Catalog returns the service names offered by the given flow.
func Catalog(flow Flow) []string {
	src := quoteServices
	if flow == FlowSchedule {
		src = scheduleServices
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// TimeSlots returns the bookable time slots of the schedule flow.
func TimeSlots() []string {
	out := make([]string, len(scheduleSlots))
	copy(out, scheduleSlots)
	return out
}

// bookableSlot reports whether the instant lands exactly on one of the
// schedule flow's slots, in the instant's own location.
func bookableSlot(at time.Time) bool {
	if at.Second() != 0 || at.Nanosecond() != 0 {
		return false
	}
	hm := at.Format("15:04")
	for _, s := range scheduleSlots {
		if s == hm {
			return true
		}
	}
	return false
}

func knownService(flow Flow, name string) bool {
	for _, s := range Catalog(flow) {
		if s == name {
			return true
		}
	}
	return false
}
