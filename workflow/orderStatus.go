package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
)

// createOrderRetries bounds the retry loop for an order-number collision
// (unique index on company_id+order_number backstops a stale sequence).
const createOrderRetries = 3

// OrderWorkflow drives the order lifecycle. All status dispatch goes through
// models.OrderStatus.CanTransition; the confirm transition is the only
// operation with cross-statement atomicity requirements.
type OrderWorkflow struct {
	store repository.Store
}

func NewOrderWorkflow(store repository.Store) *OrderWorkflow {
	return &OrderWorkflow{store: store}
}

// CreateOrder creates a Draft order with an ORD-{yy}-{NNNNN} number from the
// per company+year sequence.
func (w *OrderWorkflow) CreateOrder(ctx context.Context, companyId string, input *models.NewOrder) (*models.Order, error) {
	if fieldErrs := utils.ValidateInput(input); fieldErrs != nil {
		for field, tag := range fieldErrs {
			return nil, models.NewValidationError(field, tag)
		}
	}
	for _, item := range input.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, models.NewValidationError("quantity", "must be greater than zero")
		}
	}

	r := w.store.Repos()
	if err := r.Customers.Exists(ctx, companyId, input.CustomerId); err != nil {
		return nil, err
	}

	itemIds := make([]int, 0, len(input.Items))
	for _, item := range input.Items {
		itemIds = append(itemIds, item.ItemId)
	}
	catalog, err := r.Items.GetMany(ctx, companyId, itemIds)
	if err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if _, ok := catalog[item.ItemId]; !ok {
			return nil, utils.ErrorRecordNotFound
		}
	}

	var created *models.Order
	year := time.Now().UTC().Year()

	for attempt := 0; attempt < createOrderRetries; attempt++ {
		err = w.store.Transact(ctx, companyId, func(r repository.Repos) error {
			seq, err := r.Orders.NextSequence(ctx, companyId, year)
			if err != nil {
				return err
			}

			order := &models.Order{
				CompanyId:     companyId,
				OrderNumber:   models.FormatOrderNumber(year, seq),
				SequenceYear:  year,
				SequenceNo:    seq,
				CustomerId:    input.CustomerId,
				CurrentStatus: models.OrderStatusDraft,
				Notes:         input.Notes,
			}
			for _, item := range input.Items {
				unitPrice := item.UnitPrice
				if unitPrice.IsZero() {
					unitPrice = catalog[item.ItemId].SalesPrice
				}
				order.Items = append(order.Items, models.OrderItem{
					ItemId:    item.ItemId,
					Quantity:  item.Quantity,
					UnitPrice: unitPrice,
				})
			}
			order.RecalculateTotal()

			if err := r.Orders.Create(ctx, order); err != nil {
				return err
			}
			created = order
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !repository.IsDuplicateKey(err) {
			return nil, err
		}
	}
	return nil, &models.ConcurrencyConflictError{Err: err}
}

// GetOrder loads one order with its items.
func (w *OrderWorkflow) GetOrder(ctx context.Context, companyId string, orderId int) (*models.Order, error) {
	return w.store.Repos().Orders.Get(ctx, companyId, orderId)
}

// Transition moves an order to target. Everything, including the transition
// re-check, happens inside one Store.Transact so that a racing request
// cannot interleave between validation and effect.
//
// Confirming additionally locks the ordered item rows, re-derives stock from
// the ledger against that snapshot and, only when every line is covered,
// appends one Sale ledger row per line together with the status write.
func (w *OrderWorkflow) Transition(ctx context.Context, companyId string, orderId int, target models.OrderStatus) (*models.Order, error) {
	if !target.IsValid() {
		return nil, models.NewValidationError("target", "unknown order status")
	}

	var result *models.Order
	transition := func() error {
		return w.store.Transact(ctx, companyId, func(r repository.Repos) error {
			order, err := r.Orders.Get(ctx, companyId, orderId)
			if err != nil {
				return err
			}
			if !order.CurrentStatus.CanTransition(target) {
				return &models.InvalidTransitionError{From: order.CurrentStatus, To: target}
			}

			if target == models.OrderStatusConfirmed {
				if err := w.confirm(ctx, r, order); err != nil {
					return err
				}
			} else {
				if err := r.Orders.UpdateStatus(ctx, order, target); err != nil {
					return err
				}
			}
			result = order
			return nil
		})
	}

	var err error
	if target == models.OrderStatusConfirmed {
		// Best-effort cross-instance lock keeps racing confirms from piling
		// up on the posting lock inside the transaction.
		err = utils.CompanyLock(ctx, companyId, "confirm", "orderStatus.go", "Transition", transition)
	} else {
		err = transition()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// confirm is the check-and-deduct critical section. Runs inside the caller's
// transaction; any error rolls back every effect.
func (w *OrderWorkflow) confirm(ctx context.Context, r repository.Repos, order *models.Order) error {
	lines := make([]AvailabilityLine, 0, len(order.Items))
	itemIds := make([]int, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, AvailabilityLine{ItemId: item.ItemId, Quantity: item.Quantity})
		itemIds = append(itemIds, item.ItemId)
	}

	if len(itemIds) > 0 {
		if err := r.Items.LockForUpdate(ctx, order.CompanyId, itemIds); err != nil {
			return err
		}
	}

	availability, err := checkAvailability(ctx, r, order.CompanyId, lines)
	if err != nil {
		return err
	}
	if !availability.Sufficient {
		return &models.InsufficientStockError{Shortfalls: availability.Shortfalls}
	}

	for _, item := range order.Items {
		sale := &models.NewInventoryTransaction{
			ItemId:    item.ItemId,
			Quantity:  item.Quantity,
			Kind:      models.TransactionKindSale,
			Reference: order.OrderNumber,
		}
		if err := appendLedgerRow(ctx, r, order.CompanyId, sale); err != nil {
			return err
		}
	}

	return r.Orders.UpdateStatus(ctx, order, models.OrderStatusConfirmed)
}

// AddItem appends a line to a Draft order and refreshes the cached total.
func (w *OrderWorkflow) AddItem(ctx context.Context, companyId string, orderId int, input *models.NewOrderItem) (*models.Order, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("quantity", "must be greater than zero")
	}

	var result *models.Order
	err := w.store.Transact(ctx, companyId, func(r repository.Repos) error {
		order, err := w.draftOrder(ctx, r, companyId, orderId, "add order item")
		if err != nil {
			return err
		}

		item, err := r.Items.Get(ctx, companyId, input.ItemId)
		if err != nil {
			return err
		}
		unitPrice := input.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = item.SalesPrice
		}

		line := &models.OrderItem{
			OrderId:   order.ID,
			ItemId:    input.ItemId,
			Quantity:  input.Quantity,
			UnitPrice: unitPrice,
		}
		if err := r.Orders.CreateItem(ctx, line); err != nil {
			return err
		}

		order.Items = append(order.Items, *line)
		result, err = w.saveTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem changes quantity/price of a line on a Draft order.
func (w *OrderWorkflow) UpdateItem(ctx context.Context, companyId string, orderId int, orderItemId int, quantity decimal.Decimal, unitPrice decimal.Decimal) (*models.Order, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("quantity", "must be greater than zero")
	}

	var result *models.Order
	err := w.store.Transact(ctx, companyId, func(r repository.Repos) error {
		order, err := w.draftOrder(ctx, r, companyId, orderId, "update order item")
		if err != nil {
			return err
		}

		var line *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == orderItemId {
				line = &order.Items[i]
				break
			}
		}
		if line == nil {
			return utils.ErrorRecordNotFound
		}

		line.Quantity = quantity
		line.UnitPrice = unitPrice
		if err := r.Orders.SaveItem(ctx, line); err != nil {
			return err
		}

		result, err = w.saveTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes a line from a Draft order.
func (w *OrderWorkflow) RemoveItem(ctx context.Context, companyId string, orderId int, orderItemId int) (*models.Order, error) {
	var result *models.Order
	err := w.store.Transact(ctx, companyId, func(r repository.Repos) error {
		order, err := w.draftOrder(ctx, r, companyId, orderId, "remove order item")
		if err != nil {
			return err
		}

		found := false
		remaining := order.Items[:0]
		for _, item := range order.Items {
			if item.ID == orderItemId {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return utils.ErrorRecordNotFound
		}
		if err := r.Orders.DeleteItem(ctx, order.ID, orderItemId); err != nil {
			return err
		}

		order.Items = remaining
		result, err = w.saveTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (w *OrderWorkflow) draftOrder(ctx context.Context, r repository.Repos, companyId string, orderId int, operation string) (*models.Order, error) {
	order, err := r.Orders.Get(ctx, companyId, orderId)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus != models.OrderStatusDraft {
		return nil, &models.InvalidOperationError{Operation: operation, Status: order.CurrentStatus}
	}
	return order, nil
}

func (w *OrderWorkflow) saveTotals(ctx context.Context, r repository.Repos, order *models.Order) (*models.Order, error) {
	order.RecalculateTotal()
	if err := r.Orders.SaveTotals(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// appendLedgerRow builds and appends one validated ledger row through the
// supplied repos so confirm stays inside its transaction.
func appendLedgerRow(ctx context.Context, r repository.Repos, companyId string, input *models.NewInventoryTransaction) error {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return models.NewValidationError("quantity", "must be greater than zero")
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
	return r.Ledger.Append(ctx, txn)
}
