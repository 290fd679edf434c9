package pharmacy

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ReplenishmentRepository covers the inventory operations of the
// replenishment flow: the pharmacist files a request amount, the
// administrator approves it into stock.
type ReplenishmentRepository interface {
	ItemByName(ctx context.Context, medicationName string) (*models.InventoryItem, error)
	SetReplenishRequest(ctx context.Context, medicationName string, amount int) error
	ApplyReplenishment(ctx context.Context, medicationName string) (*models.InventoryItem, error)
}

type RequestReplenishment struct {
	inventory ReplenishmentRepository
	audit     *audit.Dispatcher
}

func NewRequestReplenishment(
	inventory ReplenishmentRepository,
	audit *audit.Dispatcher,
) *RequestReplenishment {
	return &RequestReplenishment{
		inventory: inventory,
		audit:     audit,
	}
}

func (uc *RequestReplenishment) Execute(
	ctx context.Context,
	pharmacistID, medicationName string,
	amount int,
) (*models.InventoryItem, error) {

	if amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	item, err := uc.inventory.ItemByName(ctx, medicationName)
	if err != nil {
		return nil, err
	}
	if err := uc.inventory.SetReplenishRequest(ctx, medicationName, amount); err != nil {
		return nil, err
	}
	item.ReplenishRequestAmount = amount

	uc.audit.Dispatch(audit.Event{
		UserID:   &pharmacistID,
		Action:   "replenishment_requested",
		Entity:   "inventory_item",
		EntityID: &medicationName,
		Metadata: map[string]any{"amount": amount},
	})

	return item, nil
}

type ApproveReplenishment struct {
	inventory ReplenishmentRepository
	audit     *audit.Dispatcher
}

func NewApproveReplenishment(
	inventory ReplenishmentRepository,
	audit *audit.Dispatcher,
) *ApproveReplenishment {
	return &ApproveReplenishment{
		inventory: inventory,
		audit:     audit,
	}
}

// Execute folds a pending replenishment request into the stock level and
// clears the request. A medication without a pending request is rejected.
func (uc *ApproveReplenishment) Execute(
	ctx context.Context,
	adminID, medicationName string,
) (*models.InventoryItem, error) {

	item, err := uc.inventory.ItemByName(ctx, medicationName)
	if err != nil {
		return nil, err
	}
	if item.ReplenishRequestAmount <= 0 {
		return nil, httperr.ErrBusiness("no_pending_request")
	}

	item, err = uc.inventory.ApplyReplenishment(ctx, medicationName)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "replenishment_approved",
		Entity:   "inventory_item",
		EntityID: &medicationName,
	})

	return item, nil
}
