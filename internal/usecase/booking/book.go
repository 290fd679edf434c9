package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type BookAppointmentInput struct {
	PatientID string
	DoctorID  string
	Timestamp string
}

type BookAppointment struct {
	schedules    *store.ScheduleStore
	appointments *store.AppointmentStore
	locks        *DoctorLocks
	audit        *audit.Dispatcher
}

func NewBookAppointment(
	schedules *store.ScheduleStore,
	appointments *store.AppointmentStore,
	locks *DoctorLocks,
	audit *audit.Dispatcher,
) *BookAppointment {
	return &BookAppointment{
		schedules:    schedules,
		appointments: appointments,
		locks:        locks,
		audit:        audit,
	}
}

// Execute files a pending booking request against an available slot. The
// slot itself is not relabeled here: it stays available until the doctor
// confirms, so several patients can request the same time and the doctor's
// confirmation decides who gets it.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*appointment.Appointment, error) {

	unlock := uc.locks.Lock(in.DoctorID)
	defer unlock()

	cal, err := uc.schedules.Load(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	slot, ok := cal.SlotAt(in.Timestamp)
	if !ok {
		return nil, httperr.ErrBusiness("slot_not_found")
	}
	if slot.Label != schedule.LabelAvailable {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	ap, err := uc.appointments.Create(ctx, in.PatientID, in.DoctorID, in.Timestamp)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.PatientID,
		Action:   "appointment_requested",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
