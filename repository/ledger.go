package repository

import (
	"context"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gormLedgerRepository struct {
	db *gorm.DB
}

func (r *gormLedgerRepository) Append(ctx context.Context, txn *models.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// The SQL below must agree with models.LedgerBalance: sale rows subtract,
// everything else adds.
const quantityOnHandExpr = "COALESCE(SUM(CASE WHEN kind = 'Sale' THEN -quantity ELSE quantity END), 0)"

func (r *gormLedgerRepository) QuantityOnHand(ctx context.Context, companyId string, itemId int, asOf time.Time) (decimal.Decimal, error) {
	onHand := decimal.Zero
	dbCtx := r.db.WithContext(ctx).Model(&models.InventoryTransaction{}).
		Where("company_id = ? AND item_id = ?", companyId, itemId)
	if !asOf.IsZero() {
		dbCtx = dbCtx.Where("created_at <= ?", asOf)
	}
	if err := dbCtx.Select(quantityOnHandExpr).Scan(&onHand).Error; err != nil {
		return decimal.Zero, err
	}
	return onHand, nil
}

func (r *gormLedgerRepository) QuantitiesOnHand(ctx context.Context, companyId string, itemIds []int, asOf time.Time) (map[int]decimal.Decimal, error) {
	type itemBalance struct {
		ItemId  int             `gorm:"column:item_id"`
		Balance decimal.Decimal `gorm:"column:balance"`
	}

	result := make(map[int]decimal.Decimal, len(itemIds))
	for _, id := range itemIds {
		result[id] = decimal.Zero
	}

	var rows []itemBalance
	dbCtx := r.db.WithContext(ctx).Model(&models.InventoryTransaction{}).
		Where("company_id = ? AND item_id IN ?", companyId, utils.UniqueSlice(itemIds))
	if !asOf.IsZero() {
		dbCtx = dbCtx.Where("created_at <= ?", asOf)
	}
	err := dbCtx.Select("item_id, " + quantityOnHandExpr + " AS balance").
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ItemId] = row.Balance
	}
	return result, nil
}
