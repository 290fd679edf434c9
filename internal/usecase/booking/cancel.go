package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type CancelAppointment struct {
	schedules    *store.ScheduleStore
	appointments *store.AppointmentStore
	locks        *DoctorLocks
	audit        *audit.Dispatcher
}

func NewCancelAppointment(
	schedules *store.ScheduleStore,
	appointments *store.AppointmentStore,
	locks *DoctorLocks,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		schedules:    schedules,
		appointments: appointments,
		locks:        locks,
		audit:        audit,
	}
}

// Execute cancels the patient's own appointment. A confirmed appointment
// gives its slot back; a pending one never held it. The record itself is
// kept, only the status changes.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	patientID, appointmentID string,
) (*appointment.Appointment, error) {

	ap, err := uc.appointments.Find(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap.PatientID != patientID {
		return nil, httperr.ErrBusiness("unauthorized")
	}

	unlock := uc.locks.Lock(ap.DoctorID)
	defer unlock()

	if ap.Status == appointment.StatusConfirmed {
		cal, err := uc.schedules.Load(ctx, ap.DoctorID)
		if err != nil {
			return nil, err
		}
		cal.Release(ap.Time)
		if err := uc.schedules.Save(ctx, cal); err != nil {
			return nil, err
		}
	}

	ap, err = uc.appointments.SetStatus(ctx, appointmentID, appointment.StatusCanceled)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &patientID,
		Action:   "appointment_canceled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
