package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestInventoryViewsFlagLowStock(t *testing.T) {
	views := inventoryViews([]models.InventoryItem{
		{MedicationName: "amoxicillin", StockLevel: 4, LowStockAlertLevel: 10},
		{MedicationName: "ibuprofen", StockLevel: 10, LowStockAlertLevel: 10},
		{MedicationName: "paracetamol", StockLevel: 50, LowStockAlertLevel: 10},
	})

	require.Len(t, views, 3)
	assert.True(t, views[0].LowStock)
	assert.False(t, views[1].LowStock)
	assert.False(t, views[2].LowStock)
}

func TestInventoryViewsEmpty(t *testing.T) {
	assert.Empty(t, inventoryViews(nil))
	assert.NotNil(t, inventoryViews(nil))
}
