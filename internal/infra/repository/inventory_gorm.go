package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) ItemByName(
	ctx context.Context,
	medicationName string,
) (*models.InventoryItem, error) {

	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("medication_name = ?", medicationName).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("medication_not_found")
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryGormRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Order("medication_name").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InventoryGormRepository) Create(
	ctx context.Context,
	item *models.InventoryItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryGormRepository) Update(
	ctx context.Context,
	item *models.InventoryItem,
) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryGormRepository) Delete(ctx context.Context, medicationName string) error {
	res := r.db.WithContext(ctx).
		Where("medication_name = ?", medicationName).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("medication_not_found")
	}
	return nil
}

func (r *InventoryGormRepository) StockLevel(
	ctx context.Context,
	medicationName string,
) (int, error) {

	item, err := r.ItemByName(ctx, medicationName)
	if err != nil {
		return 0, err
	}
	return item.StockLevel, nil
}

// DecrementStock subtracts quantity atomically, guarding against a
// concurrent dispense draining the row below zero.
func (r *InventoryGormRepository) DecrementStock(
	ctx context.Context,
	medicationName string,
	quantity int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("medication_name = ? AND stock_level >= ?", medicationName, quantity).
		UpdateColumn("stock_level", gorm.Expr("stock_level - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("insufficient_stock")
	}
	return nil
}

// IncrementStock gives quantity back after a dispense that could not be
// recorded.
func (r *InventoryGormRepository) IncrementStock(
	ctx context.Context,
	medicationName string,
	quantity int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("medication_name = ?", medicationName).
		UpdateColumn("stock_level", gorm.Expr("stock_level + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("medication_not_found")
	}
	return nil
}

func (r *InventoryGormRepository) SetReplenishRequest(
	ctx context.Context,
	medicationName string,
	amount int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("medication_name = ?", medicationName).
		UpdateColumn("replenish_request_amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("medication_not_found")
	}
	return nil
}

// ApplyReplenishment moves the pending request amount into the stock level
// and clears the request, in one transaction.
func (r *InventoryGormRepository) ApplyReplenishment(
	ctx context.Context,
	medicationName string,
) (*models.InventoryItem, error) {

	var item models.InventoryItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medication_name = ?", medicationName).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("medication_not_found")
			}
			return err
		}

		item.StockLevel += item.ReplenishRequestAmount
		item.ReplenishRequestAmount = 0
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
