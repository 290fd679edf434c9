package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type RescheduleAppointmentInput struct {
	AppointmentID string

	// Empty keeps the current doctor.
	NewDoctorID  string
	NewTimestamp string
}

type RescheduleAppointment struct {
	schedules    *store.ScheduleStore
	appointments *store.AppointmentStore
	locks        *DoctorLocks
	audit        *audit.Dispatcher
}

func NewRescheduleAppointment(
	schedules *store.ScheduleStore,
	appointments *store.AppointmentStore,
	locks *DoctorLocks,
	audit *audit.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		schedules:    schedules,
		appointments: appointments,
		locks:        locks,
		audit:        audit,
	}
}

// Execute moves the patient's appointment to a new slot, possibly with a
// different doctor. A confirmed appointment gives its old slot back and
// drops to pending: the new time is a fresh request the doctor must confirm
// again.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	patientID string,
	in RescheduleAppointmentInput,
) (*appointment.Appointment, error) {

	ap, err := uc.appointments.Find(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if ap.PatientID != patientID {
		return nil, httperr.ErrBusiness("unauthorized")
	}
	if ap.Status != appointment.StatusPending && ap.Status != appointment.StatusConfirmed {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	newDoctorID := in.NewDoctorID
	if newDoctorID == "" {
		newDoctorID = ap.DoctorID
	}

	unlock := uc.locks.LockBoth(ap.DoctorID, newDoctorID)
	defer unlock()

	newCal, err := uc.schedules.Load(ctx, newDoctorID)
	if err != nil {
		return nil, err
	}
	slot, ok := newCal.SlotAt(in.NewTimestamp)
	if !ok {
		return nil, httperr.ErrBusiness("slot_not_found")
	}
	if slot.Label != schedule.LabelAvailable {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	wasConfirmed := ap.Status == appointment.StatusConfirmed
	oldDoctorID, oldTime := ap.DoctorID, ap.Time

	ap, err = uc.appointments.SetTimestamp(ctx, in.AppointmentID, newDoctorID, in.NewTimestamp)
	if err != nil {
		return nil, err
	}

	if wasConfirmed {
		oldCal, err := uc.schedules.Load(ctx, oldDoctorID)
		if err != nil {
			return nil, err
		}
		oldCal.Release(oldTime)
		if err := uc.schedules.Save(ctx, oldCal); err != nil {
			return nil, err
		}

		ap, err = uc.appointments.SetStatus(ctx, in.AppointmentID, appointment.StatusPending)
		if err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &patientID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
