package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type DeclineAppointment struct {
	appointments *store.AppointmentStore
	audit        *audit.Dispatcher
}

func NewDeclineAppointment(
	appointments *store.AppointmentStore,
	audit *audit.Dispatcher,
) *DeclineAppointment {
	return &DeclineAppointment{
		appointments: appointments,
		audit:        audit,
	}
}

// Execute rejects a pending request. The slot was never claimed by the
// request, so the calendar is untouched.
func (uc *DeclineAppointment) Execute(
	ctx context.Context,
	doctorID, appointmentID string,
) (*appointment.Appointment, error) {

	ap, err := uc.appointments.Find(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap, err = uc.appointments.SetStatus(ctx, appointmentID, appointment.StatusDeclined)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "appointment_declined",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
