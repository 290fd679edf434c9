package models

import "time"

type InventoryItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MedicationName string `gorm:"size:100;uniqueIndex;not null" json:"medication_name"`
	StockLevel     int    `json:"stock_level"`

	// An item is flagged low when StockLevel falls below this level.
	LowStockAlertLevel int `json:"low_stock_alert_level"`

	// Amount a pharmacist asked the admin to restock; zero when none pending.
	ReplenishRequestAmount int `json:"replenish_request_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *InventoryItem) LowStock() bool {
	return i.StockLevel < i.LowStockAlertLevel
}
