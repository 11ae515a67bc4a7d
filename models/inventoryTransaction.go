package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTransaction is one row of the append-only stock ledger. Rows are
// never updated or deleted; corrections are new Adjustment rows. Quantity is
// stored positive, the sign of its effect comes from Kind.
type InventoryTransaction struct {
	ID        string          `gorm:"size:36;primary_key" json:"id"` // uuid
	CompanyId string          `gorm:"index:idx_inv_txn_company_item_date,priority:1;not null" json:"company_id"`
	ItemId    int             `gorm:"index:idx_inv_txn_company_item_date,priority:2;not null" json:"item_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Kind      TransactionKind `gorm:"type:enum('Purchase','Sale','Adjustment');not null" json:"kind"`
	Reference string          `gorm:"size:255" json:"reference"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `gorm:"index:idx_inv_txn_company_item_date,priority:3;autoCreateTime" json:"created_at"`
}

type NewInventoryTransaction struct {
	ItemId    int             `json:"item_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Kind      TransactionKind `json:"kind" validate:"required"`
	Reference string          `json:"reference"`
	Note      string          `json:"note"`
}

// Effect is the signed contribution of the row to quantity on hand:
// Sale subtracts, everything else adds.
func (t InventoryTransaction) Effect() decimal.Decimal {
	if t.Kind == TransactionKindSale {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// LedgerBalance states the quantity-on-hand sum rule once:
// sum of non-sale quantities minus sum of sale quantities. Order independent.
// The SQL aggregation in the repository and every fake in tests must agree
// with this function.
func LedgerBalance(transactions []InventoryTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Effect())
	}
	return total
}
