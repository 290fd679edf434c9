package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

func newAppointmentStore() *AppointmentStore {
	return NewAppointmentStore(blob.NewMemoryStore())
}

func TestCreateAndFind(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, ap.Status)
	assert.Contains(t, ap.ID, "APT-")

	got, err := s.Find(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, got.ID)
	assert.Equal(t, "pat-1", got.PatientID)
}

func TestFindUnknown(t *testing.T) {
	s := newAppointmentStore()

	_, err := s.Find(context.Background(), "APT-missing")
	require.EqualError(t, err, "appointment_not_found")
}

func TestDuplicateBookingSameTimestamp(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	// same patient, same time, even a different doctor
	_, err = s.Create(ctx, "pat-1", "doc-2", "2026-03-02 09:00")
	require.EqualError(t, err, "duplicate_booking")

	// another patient is fine
	_, err = s.Create(ctx, "pat-2", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
}

func TestCanceledDoesNotBlockRebooking(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusCanceled)
	require.NoError(t, err)

	_, err = s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
}

func TestSetStatusEnforcesTransitions(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusCompleted)
	require.EqualError(t, err, "invalid_transition")

	got, err := s.SetStatus(ctx, ap.ID, appointment.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, got.Status)
}

func TestSetOutcomeCompletesConfirmedAppointment(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	outcome := appointment.Outcome{
		VisitDate:   "2026-03-02 09:00",
		ServiceType: "consultation",
	}

	// pending appointments have no outcome yet
	_, err = s.SetOutcome(ctx, ap.ID, outcome)
	require.EqualError(t, err, "invalid_state")

	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusConfirmed)
	require.NoError(t, err)

	got, err := s.SetOutcome(ctx, ap.ID, outcome)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, got.Status)
	require.NotNil(t, got.Outcome)
	assert.Equal(t, "consultation", got.Outcome.ServiceType)

	// an outcome is recorded once
	_, err = s.SetOutcome(ctx, ap.ID, outcome)
	require.EqualError(t, err, "invalid_state")
}

func TestSetTimestampMovesAppointment(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	got, err := s.SetTimestamp(ctx, ap.ID, "doc-2", "2026-03-03 10:00")
	require.NoError(t, err)
	assert.Equal(t, "doc-2", got.DoctorID)
	assert.Equal(t, "2026-03-03 10:00", got.Time)
}

func TestSetTimestampChecksDuplicates(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-03 10:00")
	require.NoError(t, err)

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	_, err = s.SetTimestamp(ctx, ap.ID, "", "2026-03-03 10:00")
	require.EqualError(t, err, "duplicate_booking")
}

func TestSetTimestampRejectsTerminalStatus(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusDeclined)
	require.NoError(t, err)

	_, err = s.SetTimestamp(ctx, ap.ID, "", "2026-03-03 10:00")
	require.EqualError(t, err, "invalid_state")
}

func TestByDoctorAndByPatientFilters(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	a1, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
	_, err = s.Create(ctx, "pat-1", "doc-2", "2026-03-02 10:00")
	require.NoError(t, err)
	_, err = s.Create(ctx, "pat-2", "doc-1", "2026-03-02 11:00")
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, a1.ID, appointment.StatusConfirmed)
	require.NoError(t, err)

	byDoc, err := s.ByDoctor(ctx, "doc-1", "")
	require.NoError(t, err)
	assert.Len(t, byDoc, 2)

	pending, err := s.ByDoctor(ctx, "doc-1", appointment.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byPat, err := s.ByPatient(ctx, "pat-1", "")
	require.NoError(t, err)
	assert.Len(t, byPat, 2)
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	blobs := blob.NewMemoryStore()
	ctx := context.Background()

	first := NewAppointmentStore(blobs)
	ap, err := first.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	second := NewAppointmentStore(blobs)
	got, err := second.Find(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, got.ID)
}

func TestSetPrescriptionStatus(t *testing.T) {
	s := newAppointmentStore()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusConfirmed)
	require.NoError(t, err)

	_, err = s.SetOutcome(ctx, ap.ID, appointment.Outcome{
		VisitDate:   "2026-03-02 09:00",
		ServiceType: "consultation",
		Prescriptions: []appointment.Prescription{
			{MedicationName: "amoxicillin", Quantity: 14, Status: appointment.PrescriptionPending},
		},
	})
	require.NoError(t, err)

	got, err := s.SetPrescriptionStatus(ctx, ap.ID, "amoxicillin", 14, appointment.PrescriptionDispensed)
	require.NoError(t, err)
	assert.Equal(t, appointment.PrescriptionDispensed, got.Outcome.Prescriptions[0].Status)

	_, err = s.SetPrescriptionStatus(ctx, ap.ID, "amoxicillin", 14, appointment.PrescriptionDispensed)
	require.EqualError(t, err, "already_dispensed")

	_, err = s.SetPrescriptionStatus(ctx, ap.ID, "ibuprofen", 10, appointment.PrescriptionDispensed)
	require.EqualError(t, err, "prescription_not_found")
}
