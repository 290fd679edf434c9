package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type PrescriptionInput struct {
	MedicationName string `json:"medication_name"`
	Quantity       int    `json:"quantity"`
}

type RecordOutcomeInput struct {
	AppointmentID     string
	ServiceType       string
	ConsultationNotes string
	Prescriptions     []PrescriptionInput
}

type RecordOutcome struct {
	appointments *store.AppointmentStore
	audit        *audit.Dispatcher
}

func NewRecordOutcome(
	appointments *store.AppointmentStore,
	audit *audit.Dispatcher,
) *RecordOutcome {
	return &RecordOutcome{
		appointments: appointments,
		audit:        audit,
	}
}

// Execute records what happened at a confirmed visit and completes the
// appointment. Prescriptions start pending; dispensing them is the
// pharmacist's job. An outcome is written once, completed appointments
// reject a second write.
func (uc *RecordOutcome) Execute(
	ctx context.Context,
	doctorID string,
	in RecordOutcomeInput,
) (*appointment.Appointment, error) {

	ap, err := uc.appointments.Find(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if ap.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	outcome := appointment.Outcome{
		VisitDate:         ap.Time,
		ServiceType:       in.ServiceType,
		ConsultationNotes: in.ConsultationNotes,
	}
	for _, p := range in.Prescriptions {
		if p.MedicationName == "" || p.Quantity <= 0 {
			return nil, httperr.ErrBusiness("invalid_prescription")
		}
		outcome.Prescriptions = append(outcome.Prescriptions, appointment.Prescription{
			MedicationName: p.MedicationName,
			Quantity:       p.Quantity,
			Status:         appointment.PrescriptionPending,
		})
	}

	ap, err = uc.appointments.SetOutcome(ctx, in.AppointmentID, outcome)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "outcome_recorded",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
