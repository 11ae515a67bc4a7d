package workflow

import (
	"context"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
)

// MarginLine is one quoted line for a profitability check. DiscountAmount is
// a flat deduction per line; DiscountPercentage applies to the gross
// quantity*unitPrice.
type MarginLine struct {
	ItemId             int             `json:"itemId"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

type MarginResult struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalMargin      decimal.Decimal `json:"totalMargin"`
	MarginPercentage decimal.Decimal `json:"marginPercentage"`
	ItemCount        int             `json:"itemCount"`
}

// MarginCalculator prices margins on proposed line sets, costing manufactured
// goods through the BOM engine.
type MarginCalculator struct {
	store repository.Store
	costs *BomCostEngine
}

func NewMarginCalculator(store repository.Store, costs *BomCostEngine) *MarginCalculator {
	return &MarginCalculator{store: store, costs: costs}
}

// Calculate sums revenue and cost over lines.
//
// Line revenue is quantity*unitPrice - discountAmount -
// quantity*unitPrice*discountPercentage/100, clamped at zero. Line cost is
// unit cost * quantity. The margin percentage is margin/revenue*100, or zero
// when revenue is zero.
func (m *MarginCalculator) Calculate(ctx context.Context, companyId string, lines []MarginLine) (*MarginResult, error) {
	if len(lines) == 0 {
		return nil, models.NewValidationError("lines", "at least one line is required")
	}

	hundred := decimal.NewFromInt(100)
	result := &MarginResult{
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		ItemCount:    len(lines),
	}

	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, models.NewValidationError("quantity", "must be greater than zero")
		}

		gross := line.UnitPrice.Mul(line.Quantity)
		net := gross.Sub(line.DiscountAmount)
		if line.DiscountPercentage.GreaterThan(decimal.Zero) {
			net = net.Sub(gross.Mul(line.DiscountPercentage).Div(hundred))
		}
		revenue := utils.DecimalMax(net, decimal.Zero)

		unitCost, err := m.costs.UnitCost(ctx, companyId, line.ItemId)
		if err != nil {
			return nil, err
		}

		result.TotalRevenue = result.TotalRevenue.Add(revenue)
		result.TotalCost = result.TotalCost.Add(unitCost.Mul(line.Quantity))
	}

	result.TotalMargin = result.TotalRevenue.Sub(result.TotalCost)
	if result.TotalRevenue.GreaterThan(decimal.Zero) {
		result.MarginPercentage = result.TotalMargin.Div(result.TotalRevenue).Mul(hundred)
	} else {
		result.MarginPercentage = decimal.Zero
	}
	return result, nil
}

// CustomerAverage averages the margin percentage over a customer's Invoiced
// orders created at or after since. Orders are costed at current unit costs,
// not costs as of invoicing.
func (m *MarginCalculator) CustomerAverage(ctx context.Context, companyId string, customerId int, since time.Time) (decimal.Decimal, error) {
	r := m.store.Repos()
	if err := r.Customers.Exists(ctx, companyId, customerId); err != nil {
		return decimal.Zero, err
	}

	orders, err := r.Orders.ListByCustomerStatusSince(ctx, companyId, customerId, models.OrderStatusInvoiced, since)
	if err != nil {
		return decimal.Zero, err
	}
	if len(orders) == 0 {
		return decimal.Zero, nil
	}

	sum := decimal.Zero
	counted := 0
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		lines := make([]MarginLine, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, MarginLine{
				ItemId:    item.ItemId,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		res, err := m.Calculate(ctx, companyId, lines)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(res.MarginPercentage)
		counted++
	}
	if counted == 0 {
		return decimal.Zero, nil
	}
	return sum.Div(decimal.NewFromInt(int64(counted))), nil
}
