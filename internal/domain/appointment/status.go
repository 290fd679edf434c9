package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// transitions lists every legal status change:
//
//	pending   -> confirmed   (doctor accepts)
//	pending   -> declined    (doctor declines)
//	confirmed -> completed   (outcome recorded)
//	confirmed -> pending     (patient reschedules, must be re-confirmed)
//	pending | confirmed -> canceled (patient cancels)
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusDeclined, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusPending, StatusCanceled},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Transition(ap *Appointment, to Status) error {
	if !CanTransition(ap.Status, to) {
		return httperr.ErrBusiness("invalid_transition")
	}
	ap.Status = to
	return nil
}

// Terminal statuses never change again (canceled records additionally drop
// out of active views).
func IsTerminal(s Status) bool {
	return s == StatusDeclined || s == StatusCompleted || s == StatusCanceled
}

// IsActive reports whether an appointment still counts against the
// one-booking-per-patient-per-timestamp rule.
func IsActive(s Status) bool {
	return s != StatusCanceled
}
