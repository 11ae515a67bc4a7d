package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/shopspring/decimal"
)

// LedgerService owns the append-only inventory transaction ledger. Stock on
// hand is always derived by aggregation; there is no mutable quantity field
// anywhere.
type LedgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) *LedgerService {
	return &LedgerService{store: store}
}

// RecordTransaction validates and appends a single ledger row. Corrections
// are new Adjustment rows, never edits.
func (s *LedgerService) RecordTransaction(ctx context.Context, companyId string, input *models.NewInventoryTransaction) (*models.InventoryTransaction, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("quantity", "must be greater than zero")
	}
	if !input.Kind.IsValid() {
		return nil, models.NewValidationError("kind", "unknown transaction kind")
	}

	r := s.store.Repos()
	if _, err := r.Items.Get(ctx, companyId, input.ItemId); err != nil {
		return nil, err
	}

	txn := &models.InventoryTransaction{
		ID:        uuid.NewString(),
		CompanyId: companyId,
		ItemId:    input.ItemId,
		Quantity:  input.Quantity,
		Kind:      input.Kind,
		Reference: input.Reference,
		Note:      input.Note,
	}
	if err := r.Ledger.Append(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// QuantityOnHand derives the stock level for an item by summing its ledger
// rows up to asOf (zero time = now).
func (s *LedgerService) QuantityOnHand(ctx context.Context, companyId string, itemId int, asOf time.Time) (decimal.Decimal, error) {
	r := s.store.Repos()
	if _, err := r.Items.Get(ctx, companyId, itemId); err != nil {
		return decimal.Zero, err
	}
	return r.Ledger.QuantityOnHand(ctx, companyId, itemId, asOf)
}
