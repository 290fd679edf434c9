package pharmacy

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

// InventoryRepository is the slice of the medication inventory the
// dispensing flow needs. IncrementStock exists to give failed dispenses
// their stock back.
type InventoryRepository interface {
	StockLevel(ctx context.Context, medicationName string) (int, error)
	DecrementStock(ctx context.Context, medicationName string, quantity int) error
	IncrementStock(ctx context.Context, medicationName string, quantity int) error
}

type DispensePrescriptionInput struct {
	AppointmentID  string
	MedicationName string
	Quantity       int
}

type DispensePrescription struct {
	appointments *store.AppointmentStore
	inventory    InventoryRepository
	audit        *audit.Dispatcher
}

func NewDispensePrescription(
	appointments *store.AppointmentStore,
	inventory InventoryRepository,
	audit *audit.Dispatcher,
) *DispensePrescription {
	return &DispensePrescription{
		appointments: appointments,
		inventory:    inventory,
		audit:        audit,
	}
}

// Execute hands out one prescription line from a completed visit. The line
// must still be pending and the pharmacy must hold enough stock. Stock moves
// before the line is marked dispensed: a failed decrement must never leave
// a durable dispensed mark behind, because that mark is what blocks the
// retry.
func (uc *DispensePrescription) Execute(
	ctx context.Context,
	pharmacistID string,
	in DispensePrescriptionInput,
) (*appointment.Appointment, error) {

	ap, err := uc.appointments.Find(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if ap.Status != appointment.StatusCompleted || ap.Outcome == nil {
		return nil, httperr.ErrBusiness("invalid_state")
	}
	if err := findPendingLine(ap, in.MedicationName, in.Quantity); err != nil {
		return nil, err
	}

	stock, err := uc.inventory.StockLevel(ctx, in.MedicationName)
	if err != nil {
		return nil, err
	}
	if stock < in.Quantity {
		return nil, httperr.ErrBusiness("insufficient_stock")
	}

	if err := uc.inventory.DecrementStock(ctx, in.MedicationName, in.Quantity); err != nil {
		return nil, err
	}

	ap, err = uc.appointments.SetPrescriptionStatus(
		ctx,
		in.AppointmentID,
		in.MedicationName,
		in.Quantity,
		appointment.PrescriptionDispensed,
	)
	if err != nil {
		// the line was not marked, give the stock back so the retry
		// starts from a clean state
		if compErr := uc.inventory.IncrementStock(ctx, in.MedicationName, in.Quantity); compErr != nil {
			return nil, fmt.Errorf("mark dispensed: %w (stock compensation also failed: %v)", err, compErr)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &pharmacistID,
		Action:   "prescription_dispensed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"medication": in.MedicationName,
			"quantity":   in.Quantity,
		},
	})

	return ap, nil
}

// findPendingLine checks the outcome holds a still-pending prescription
// matching the requested medication and quantity.
func findPendingLine(ap *appointment.Appointment, medicationName string, quantity int) error {
	for _, p := range ap.Outcome.Prescriptions {
		if p.MedicationName == medicationName && p.Quantity == quantity {
			if p.Status == appointment.PrescriptionDispensed {
				return httperr.ErrBusiness("already_dispensed")
			}
			return nil
		}
	}
	return httperr.ErrBusiness("prescription_not_found")
}
