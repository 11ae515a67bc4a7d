package workflow

import (
	"context"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
)

type AvailabilityLine struct {
	ItemId   int             `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type AvailabilityResult struct {
	Sufficient bool                    `json:"sufficient"`
	Shortfalls []models.StockShortfall `json:"shortfalls"`
}

// StockChecker reports whether requested quantities are covered by
// ledger-derived stock. Checking never writes.
type StockChecker struct {
	store repository.Store
}

func NewStockChecker(store repository.Store) *StockChecker {
	return &StockChecker{store: store}
}

// CheckAvailability evaluates the lines against a fresh snapshot. A result
// from here must not gate a later deduction; the confirm path re-checks
// inside its own transaction against locked rows.
func (c *StockChecker) CheckAvailability(ctx context.Context, companyId string, lines []AvailabilityLine) (*AvailabilityResult, error) {
	return checkAvailability(ctx, c.store.Repos(), companyId, lines)
}

// checkAvailability runs the comparison through whatever repos it is handed,
// so the confirm transition can reuse it against transaction-scoped repos.
func checkAvailability(ctx context.Context, r repository.Repos, companyId string, lines []AvailabilityLine) (*AvailabilityResult, error) {
	if len(lines) == 0 {
		return &AvailabilityResult{Sufficient: true}, nil
	}

	itemIds := make([]int, 0, len(lines))
	for _, line := range lines {
		itemIds = append(itemIds, line.ItemId)
	}

	items, err := r.Items.GetMany(ctx, companyId, itemIds)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, ok := items[line.ItemId]; !ok {
			return nil, utils.ErrorRecordNotFound
		}
	}

	onHand, err := r.Ledger.QuantitiesOnHand(ctx, companyId, itemIds, time.Time{})
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{Sufficient: true}
	for _, line := range lines {
		available := onHand[line.ItemId]
		if available.LessThan(line.Quantity) {
			result.Sufficient = false
			result.Shortfalls = append(result.Shortfalls, models.StockShortfall{
				ItemId:    line.ItemId,
				Name:      items[line.ItemId].Name,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	return result, nil
}
