package repository

import (
	"context"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormItemRepository struct {
	db *gorm.DB
}

func (r *gormItemRepository) Get(ctx context.Context, companyId string, itemId int) (*models.InventoryItem, error) {
	return utils.FetchModel[models.InventoryItem](ctx, r.db, companyId, itemId)
}

func (r *gormItemRepository) GetMany(ctx context.Context, companyId string, itemIds []int) (map[int]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyId, utils.UniqueSlice(itemIds)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	result := make(map[int]*models.InventoryItem, len(items))
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

func (r *gormItemRepository) ListRawMaterials(ctx context.Context, companyId string) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND kind = ?", companyId, models.ItemKindRawMaterial).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LockForUpdate pins the item rows until the surrounding transaction ends so
// that a concurrent confirm cannot read the same snapshot. Ordered by id to
// keep lock acquisition deterministic across racing transactions.
func (r *gormItemRepository) LockForUpdate(ctx context.Context, companyId string, itemIds []int) error {
	var locked []models.InventoryItem
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id IN ?", companyId, utils.UniqueSlice(itemIds)).
		Order("id").
		Find(&locked).Error
}
