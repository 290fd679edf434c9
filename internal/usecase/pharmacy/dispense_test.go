package pharmacy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

type fakeInventory struct {
	stock map[string]int

	// forces the next DecrementStock call to fail
	failDecrement bool
}

func (f *fakeInventory) StockLevel(_ context.Context, name string) (int, error) {
	level, ok := f.stock[name]
	if !ok {
		return 0, httperr.ErrBusiness("medication_not_found")
	}
	return level, nil
}

func (f *fakeInventory) DecrementStock(_ context.Context, name string, qty int) error {
	if f.failDecrement || f.stock[name] < qty {
		return httperr.ErrBusiness("insufficient_stock")
	}
	f.stock[name] -= qty
	return nil
}

func (f *fakeInventory) IncrementStock(_ context.Context, name string, qty int) error {
	f.stock[name] += qty
	return nil
}

func completedAppointment(t *testing.T, s *store.AppointmentStore) *appointment.Appointment {
	t.Helper()
	ctx := context.Background()

	ap, err := s.Create(ctx, "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, ap.ID, appointment.StatusConfirmed)
	require.NoError(t, err)

	ap, err = s.SetOutcome(ctx, ap.ID, appointment.Outcome{
		VisitDate:   "2026-03-02 09:00",
		ServiceType: "consultation",
		Prescriptions: []appointment.Prescription{
			{MedicationName: "amoxicillin", Quantity: 14, Status: appointment.PrescriptionPending},
		},
	})
	require.NoError(t, err)
	return ap
}

func TestDispenseDecrementsStockAndMarksLine(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{stock: map[string]int{"amoxicillin": 20}}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap := completedAppointment(t, appointments)

	got, err := uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	})
	require.NoError(t, err)
	assert.Equal(t, appointment.PrescriptionDispensed, got.Outcome.Prescriptions[0].Status)
	assert.Equal(t, 6, inventory.stock["amoxicillin"])
}

func TestDispenseRejectsSecondAttempt(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{stock: map[string]int{"amoxicillin": 100}}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap := completedAppointment(t, appointments)

	in := DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	}

	_, err := uc.Execute(context.Background(), "pharm-1", in)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), "pharm-1", in)
	require.EqualError(t, err, "already_dispensed")

	// stock only moved once
	assert.Equal(t, 86, inventory.stock["amoxicillin"])
}

func TestDispenseInsufficientStock(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{stock: map[string]int{"amoxicillin": 5}}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap := completedAppointment(t, appointments)

	_, err := uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	})
	require.EqualError(t, err, "insufficient_stock")

	// the prescription line stays pending
	got, err := appointments.Find(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.PrescriptionPending, got.Outcome.Prescriptions[0].Status)
}

// A decrement that fails at the database after the prechecks passed must
// leave the line pending so the pharmacist can retry.
func TestDispenseFailedDecrementLeavesLinePending(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{
		stock:         map[string]int{"amoxicillin": 100},
		failDecrement: true,
	}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap := completedAppointment(t, appointments)

	_, err := uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	})
	require.EqualError(t, err, "insufficient_stock")

	got, err := appointments.Find(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.PrescriptionPending, got.Outcome.Prescriptions[0].Status)
	assert.Equal(t, 100, inventory.stock["amoxicillin"])

	// the retry goes through once the decrement works again
	inventory.failDecrement = false
	got, err = uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	})
	require.NoError(t, err)
	assert.Equal(t, appointment.PrescriptionDispensed, got.Outcome.Prescriptions[0].Status)
	assert.Equal(t, 86, inventory.stock["amoxicillin"])
}

func TestDispenseUnknownLine(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{stock: map[string]int{"amoxicillin": 100, "ibuprofen": 100}}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap := completedAppointment(t, appointments)

	_, err := uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "ibuprofen",
		Quantity:       10,
	})
	require.EqualError(t, err, "prescription_not_found")
}

func TestDispenseRequiresCompletedVisit(t *testing.T) {
	appointments := store.NewAppointmentStore(blob.NewMemoryStore())
	inventory := &fakeInventory{stock: map[string]int{"amoxicillin": 100}}
	uc := NewDispensePrescription(appointments, inventory, audit.NewDispatcher(audit.New(nil)))

	ap, err := appointments.Create(context.Background(), "pat-1", "doc-1", "2026-03-02 09:00")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), "pharm-1", DispensePrescriptionInput{
		AppointmentID:  ap.ID,
		MedicationName: "amoxicillin",
		Quantity:       14,
	})
	require.EqualError(t, err, "invalid_state")
}
