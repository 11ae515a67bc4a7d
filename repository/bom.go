package repository

import (
	"context"
	"errors"

	"github.com/nordverk/factora_backend/models"
	"gorm.io/gorm"
)

type gormBOMRepository struct {
	db *gorm.DB
}

func (r *gormBOMRepository) GetForItem(ctx context.Context, companyId string, itemId int) (*models.BillOfMaterial, error) {
	var bom models.BillOfMaterial
	err := r.db.WithContext(ctx).Preload("Items").
		Where("company_id = ? AND item_id = ?", companyId, itemId).
		First(&bom).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// no BOM is a valid state, the cost engine falls back to the
		// item's own cost price
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bom, nil
}
