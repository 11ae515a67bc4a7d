package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/nordverk/factora_backend/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentAlert flags a raw material at or below its reorder level.
type ReplenishmentAlert struct {
	ItemId       int             `json:"itemId"`
	Sku          string          `json:"sku"`
	Name         string          `json:"name"`
	OnHand       decimal.Decimal `json:"onHand"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	LeadTimeDays int             `json:"leadTimeDays"`
	UrgencyScore int             `json:"urgencyScore"`
}

// ReplenishmentScorer ranks raw materials needing a purchase, most urgent
// first.
type ReplenishmentScorer struct {
	store repository.Store
}

func NewReplenishmentScorer(store repository.Store) *ReplenishmentScorer {
	return &ReplenishmentScorer{store: store}
}

// Alerts returns every raw material whose on-hand quantity is at or below
// its reorder level, sorted by urgency score descending. Items with a zero
// reorder level only alert when stock is exhausted.
func (s *ReplenishmentScorer) Alerts(ctx context.Context, companyId string) ([]ReplenishmentAlert, error) {
	r := s.store.Repos()
	materials, err := r.Items.ListRawMaterials(ctx, companyId)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, nil
	}

	itemIds := make([]int, 0, len(materials))
	for _, item := range materials {
		itemIds = append(itemIds, item.ID)
	}
	onHand, err := r.Ledger.QuantitiesOnHand(ctx, companyId, itemIds, time.Time{})
	if err != nil {
		return nil, err
	}

	alerts := make([]ReplenishmentAlert, 0)
	for _, item := range materials {
		qty := onHand[item.ID]
		if item.ReorderLevel.IsZero() && qty.GreaterThan(decimal.Zero) {
			continue
		}
		if qty.GreaterThan(item.ReorderLevel) {
			continue
		}
		alerts = append(alerts, ReplenishmentAlert{
			ItemId:       item.ID,
			Sku:          item.Sku,
			Name:         item.Name,
			OnHand:       qty,
			ReorderLevel: item.ReorderLevel,
			LeadTimeDays: item.LeadTimeDays,
			UrgencyScore: urgencyScore(qty, item.ReorderLevel, item.LeadTimeDays),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].UrgencyScore > alerts[j].UrgencyScore
	})
	return alerts, nil
}

// urgencyScore maps the stock position to a 0-100 urgency. A zero reorder
// level has no ratio to compute, so it scores the fixed baseline 50 even when
// stock is exhausted. Otherwise: exhausted stock scores 100, under a quarter
// of the reorder level 90, under half 70, otherwise 50. Lead time adds 2
// points per day up to 20, capped at 100.
func urgencyScore(onHand, reorderLevel decimal.Decimal, leadTimeDays int) int {
	var base int
	switch {
	case reorderLevel.IsZero():
		base = 50
	case onHand.LessThanOrEqual(decimal.Zero):
		base = 100
	default:
		ratio := onHand.Div(reorderLevel)
		switch {
		case ratio.LessThanOrEqual(decimal.NewFromFloat(0.25)):
			base = 90
		case ratio.LessThanOrEqual(decimal.NewFromFloat(0.5)):
			base = 70
		default:
			base = 50
		}
	}

	leadBoost := leadTimeDays * 2
	if leadBoost > 20 {
		leadBoost = 20
	}
	score := base + leadBoost
	if score > 100 {
		score = 100
	}
	return score
}
