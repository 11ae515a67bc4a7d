package workflow

import (
	"context"

	"github.com/nordverk/factora_backend/config"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
)

// maxBomDepth caps recursive rollup so a malformed BOM graph cannot blow the
// stack. Beyond the cap a component is priced at its stored cost.
const maxBomDepth = 8

// BomCostEngine computes the unit cost of an item. Raw materials cost their
// stored cost price; manufactured goods cost BOM labor plus component costs.
type BomCostEngine struct {
	store repository.Store
}

func NewBomCostEngine(store repository.Store) *BomCostEngine {
	return &BomCostEngine{store: store}
}

func (e *BomCostEngine) UnitCost(ctx context.Context, companyId string, itemId int) (decimal.Decimal, error) {
	r := e.store.Repos()
	item, err := r.Items.Get(ctx, companyId, itemId)
	if err != nil {
		return decimal.Zero, err
	}
	return e.unitCost(ctx, r, companyId, item, map[int]bool{itemId: true}, 0)
}

func (e *BomCostEngine) unitCost(ctx context.Context, r repository.Repos, companyId string, item *models.InventoryItem, visited map[int]bool, depth int) (decimal.Decimal, error) {
	if item.Kind != models.ItemKindManufacturedGood {
		return item.CostPrice, nil
	}

	bom, err := r.Boms.GetForItem(ctx, companyId, item.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if bom == nil {
		// no recipe recorded yet: the item's own cost price stands in
		return item.CostPrice, nil
	}

	componentIds := make([]int, 0, len(bom.Items))
	for _, bomItem := range bom.Items {
		componentIds = append(componentIds, bomItem.ComponentItemId)
	}
	components, err := r.Items.GetMany(ctx, companyId, componentIds)
	if err != nil {
		return decimal.Zero, err
	}

	cost := bom.LaborCost
	for _, bomItem := range bom.Items {
		component, ok := components[bomItem.ComponentItemId]
		if !ok {
			return decimal.Zero, utils.ErrorRecordNotFound
		}
		componentCost, err := e.componentCost(ctx, r, companyId, component, visited, depth)
		if err != nil {
			return decimal.Zero, err
		}
		cost = cost.Add(bomItem.Quantity.Mul(componentCost))
	}
	return cost, nil
}

// componentCost prices one component. The default is the stored cost price,
// even for a manufactured component with its own BOM. Recursive rollup is
// opt-in; a revisited item or a depth-cap hit falls back to the stored price.
func (e *BomCostEngine) componentCost(ctx context.Context, r repository.Repos, companyId string, component *models.InventoryItem, visited map[int]bool, depth int) (decimal.Decimal, error) {
	if !config.RecursiveBomCosting() {
		return component.CostPrice, nil
	}
	if component.Kind != models.ItemKindManufacturedGood {
		return component.CostPrice, nil
	}
	if visited[component.ID] || depth+1 >= maxBomDepth {
		return component.CostPrice, nil
	}
	visited[component.ID] = true
	return e.unitCost(ctx, r, companyId, component, visited, depth+1)
}
