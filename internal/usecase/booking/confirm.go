package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type ConfirmAppointment struct {
	schedules    *store.ScheduleStore
	appointments *store.AppointmentStore
	locks        *DoctorLocks
	audit        *audit.Dispatcher
}

func NewConfirmAppointment(
	schedules *store.ScheduleStore,
	appointments *store.AppointmentStore,
	locks *DoctorLocks,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		schedules:    schedules,
		appointments: appointments,
		locks:        locks,
		audit:        audit,
	}
}

// Execute accepts a pending request. The slot is re-validated here, under
// the doctor's lock: if another request already claimed the time (or the
// doctor blocked it), this fails with slot_unavailable and the request
// stays pending so the patient can rebook.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	doctorID, appointmentID string,
) (*appointment.Appointment, error) {

	unlock := uc.locks.Lock(doctorID)
	defer unlock()

	// read under the lock: a concurrent cancel or reschedule holding the
	// same doctor lock may have moved the appointment since the request
	// was issued, and confirming a stale read would claim the slot for an
	// appointment that can no longer transition
	ap, err := uc.appointments.Find(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if ap.Status != appointment.StatusPending {
		return nil, httperr.ErrBusiness("invalid_transition")
	}

	cal, err := uc.schedules.Load(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := cal.MarkConfirmed(ap.Time, ap.PatientID); err != nil {
		return nil, err
	}
	if err := uc.schedules.Save(ctx, cal); err != nil {
		return nil, err
	}

	ap, err = uc.appointments.SetStatus(ctx, appointmentID, appointment.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
