package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	PrescriptionPending   = "pending"
	PrescriptionDispensed = "dispensed"
)

type Prescription struct {
	MedicationName string `json:"medication_name"`
	Quantity       int    `json:"quantity"`
	Status         string `json:"status"`
}

// Outcome closes out a completed visit. Created once at completion and
// immutable afterwards, except for per-line dispense status updates made by
// the pharmacy.
type Outcome struct {
	VisitDate         string         `json:"visit_date"`
	ServiceType       string         `json:"service_type"`
	ConsultationNotes string         `json:"consultation_notes"`
	Prescriptions     []Prescription `json:"prescriptions"`
}

type Appointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`

	// Normalized slot timestamp (schedule.TimeLayout). While the status is
	// pending or confirmed this references a slot in the doctor's calendar.
	Time string `json:"time"`

	Status  Status   `json:"status"`
	Outcome *Outcome `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewID() string {
	return "APT-" + uuid.NewString()
}
