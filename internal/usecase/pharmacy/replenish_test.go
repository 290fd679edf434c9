package pharmacy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type fakeReplenishmentRepo struct {
	items map[string]*models.InventoryItem
}

func (f *fakeReplenishmentRepo) ItemByName(_ context.Context, name string) (*models.InventoryItem, error) {
	item, ok := f.items[name]
	if !ok {
		return nil, httperr.ErrBusiness("medication_not_found")
	}
	cp := *item
	return &cp, nil
}

func (f *fakeReplenishmentRepo) SetReplenishRequest(_ context.Context, name string, amount int) error {
	item, ok := f.items[name]
	if !ok {
		return httperr.ErrBusiness("medication_not_found")
	}
	item.ReplenishRequestAmount = amount
	return nil
}

func (f *fakeReplenishmentRepo) ApplyReplenishment(_ context.Context, name string) (*models.InventoryItem, error) {
	item, ok := f.items[name]
	if !ok {
		return nil, httperr.ErrBusiness("medication_not_found")
	}
	item.StockLevel += item.ReplenishRequestAmount
	item.ReplenishRequestAmount = 0
	cp := *item
	return &cp, nil
}

func TestReplenishmentFlow(t *testing.T) {
	repo := &fakeReplenishmentRepo{items: map[string]*models.InventoryItem{
		"amoxicillin": {MedicationName: "amoxicillin", StockLevel: 3, LowStockAlertLevel: 10},
	}}
	dispatcher := audit.NewDispatcher(audit.New(nil))

	request := NewRequestReplenishment(repo, dispatcher)
	approve := NewApproveReplenishment(repo, dispatcher)
	ctx := context.Background()

	item, err := request.Execute(ctx, "pharm-1", "amoxicillin", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, item.ReplenishRequestAmount)

	item, err = approve.Execute(ctx, "admin-1", "amoxicillin")
	require.NoError(t, err)
	assert.Equal(t, 53, item.StockLevel)
	assert.Equal(t, 0, item.ReplenishRequestAmount)
}

func TestApproveWithoutPendingRequest(t *testing.T) {
	repo := &fakeReplenishmentRepo{items: map[string]*models.InventoryItem{
		"amoxicillin": {MedicationName: "amoxicillin", StockLevel: 3},
	}}
	approve := NewApproveReplenishment(repo, audit.NewDispatcher(audit.New(nil)))

	_, err := approve.Execute(context.Background(), "admin-1", "amoxicillin")
	require.EqualError(t, err, "no_pending_request")
}

func TestRequestRejectsBadAmount(t *testing.T) {
	repo := &fakeReplenishmentRepo{items: map[string]*models.InventoryItem{}}
	request := NewRequestReplenishment(repo, audit.NewDispatcher(audit.New(nil)))

	_, err := request.Execute(context.Background(), "pharm-1", "amoxicillin", 0)
	require.EqualError(t, err, "invalid_amount")

	_, err = request.Execute(context.Background(), "pharm-1", "unknown", 5)
	require.EqualError(t, err, "medication_not_found")
}
