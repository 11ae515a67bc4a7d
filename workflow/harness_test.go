package workflow_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
)

// fakeState is the in-memory dataset behind fakeStore. Tests can seed and
// inspect it directly between calls; during a transaction only the staged
// copy is touched.
type fakeState struct {
	items           map[int]*models.InventoryItem
	ledger          []models.InventoryTransaction
	orders          map[int]*models.Order
	boms            map[int]*models.BillOfMaterial
	customers       map[int]bool
	seq             map[int]int64
	nextOrderId     int
	nextOrderItemId int
}

func newFakeState() *fakeState {
	return &fakeState{
		items:     map[int]*models.InventoryItem{},
		orders:    map[int]*models.Order{},
		boms:      map[int]*models.BillOfMaterial{},
		customers: map[int]bool{},
		seq:       map[int]int64{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for id, item := range s.items {
		copied := *item
		c.items[id] = &copied
	}
	c.ledger = append([]models.InventoryTransaction(nil), s.ledger...)
	for id, order := range s.orders {
		c.orders[id] = cloneOrder(order)
	}
	for id, bom := range s.boms {
		copied := *bom
		copied.Items = append([]models.BOMItem(nil), bom.Items...)
		c.boms[id] = &copied
	}
	for id := range s.customers {
		c.customers[id] = true
	}
	for year, n := range s.seq {
		c.seq[year] = n
	}
	c.nextOrderId = s.nextOrderId
	c.nextOrderItemId = s.nextOrderItemId
	return c
}

func cloneOrder(order *models.Order) *models.Order {
	copied := *order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	return &copied
}

// fakeStore serializes transactions with a mutex and commits by swapping in
// the staged state, so a failed fn leaves no trace, mirroring a rollback.
type fakeStore struct {
	mu    sync.Mutex
	state *fakeState
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func (s *fakeStore) Repos() repository.Repos {
	return fakeRepos(s.state, &s.mu)
}

func (s *fakeStore) Transact(ctx context.Context, companyId string, fn func(r repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(fakeRepos(staged, nil)); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// Seed helpers. Not safe to call concurrently with service calls.

func (s *fakeStore) addCustomer(id int) {
	s.state.customers[id] = true
}

func (s *fakeStore) addItem(item *models.InventoryItem) *models.InventoryItem {
	s.state.items[item.ID] = item
	return item
}

func (s *fakeStore) addBOM(bom *models.BillOfMaterial) {
	s.state.boms[bom.ItemId] = bom
}

func (s *fakeStore) addStock(companyId string, itemId int, qty int64) {
	s.state.ledger = append(s.state.ledger, models.InventoryTransaction{
		ID:        "seed",
		CompanyId: companyId,
		ItemId:    itemId,
		Quantity:  decimal.NewFromInt(qty),
		Kind:      models.TransactionKindPurchase,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *fakeStore) order(id int) *models.Order {
	return cloneOrder(s.state.orders[id])
}

func (s *fakeStore) ledgerRows() []models.InventoryTransaction {
	return append([]models.InventoryTransaction(nil), s.state.ledger...)
}

func fakeRepos(st *fakeState, mu *sync.Mutex) repository.Repos {
	return repository.Repos{
		Items:     &fakeItemRepo{st: st, mu: mu},
		Ledger:    &fakeLedgerRepo{st: st, mu: mu},
		Orders:    &fakeOrderRepo{st: st, mu: mu},
		Boms:      &fakeBOMRepo{st: st, mu: mu},
		Customers: &fakeCustomerRepo{st: st, mu: mu},
	}
}

// lockIf guards reads against the live state; repos handed to a transaction
// run under the store mutex already and pass mu == nil.
func lockIf(mu *sync.Mutex) func() {
	if mu == nil {
		return func() {}
	}
	mu.Lock()
	return mu.Unlock
}

type fakeItemRepo struct {
	st *fakeState
	mu *sync.Mutex
}

func (r *fakeItemRepo) Get(ctx context.Context, companyId string, itemId int) (*models.InventoryItem, error) {
	defer lockIf(r.mu)()
	item, ok := r.st.items[itemId]
	if !ok || item.CompanyId != companyId {
		return nil, utils.ErrorRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetMany(ctx context.Context, companyId string, itemIds []int) (map[int]*models.InventoryItem, error) {
	defer lockIf(r.mu)()
	found := map[int]*models.InventoryItem{}
	for _, id := range itemIds {
		if item, ok := r.st.items[id]; ok && item.CompanyId == companyId {
			copied := *item
			found[id] = &copied
		}
	}
	return found, nil
}

func (r *fakeItemRepo) ListRawMaterials(ctx context.Context, companyId string) ([]*models.InventoryItem, error) {
	defer lockIf(r.mu)()
	var out []*models.InventoryItem
	for _, item := range r.st.items {
		if item.CompanyId == companyId && item.Kind == models.ItemKindRawMaterial {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeItemRepo) LockForUpdate(ctx context.Context, companyId string, itemIds []int) error {
	return nil
}

type fakeLedgerRepo struct {
	st *fakeState
	mu *sync.Mutex
}

func (r *fakeLedgerRepo) Append(ctx context.Context, txn *models.InventoryTransaction) error {
	defer lockIf(r.mu)()
	copied := *txn
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	r.st.ledger = append(r.st.ledger, copied)
	return nil
}

func (r *fakeLedgerRepo) QuantityOnHand(ctx context.Context, companyId string, itemId int, asOf time.Time) (decimal.Decimal, error) {
	defer lockIf(r.mu)()
	return r.balance(companyId, itemId, asOf), nil
}

func (r *fakeLedgerRepo) QuantitiesOnHand(ctx context.Context, companyId string, itemIds []int, asOf time.Time) (map[int]decimal.Decimal, error) {
	defer lockIf(r.mu)()
	out := map[int]decimal.Decimal{}
	for _, id := range itemIds {
		out[id] = r.balance(companyId, id, asOf)
	}
	return out, nil
}

func (r *fakeLedgerRepo) balance(companyId string, itemId int, asOf time.Time) decimal.Decimal {
	var rows []models.InventoryTransaction
	for _, row := range r.st.ledger {
		if row.CompanyId != companyId || row.ItemId != itemId {
			continue
		}
		if !asOf.IsZero() && row.CreatedAt.After(asOf) {
			continue
		}
		rows = append(rows, row)
	}
	return models.LedgerBalance(rows)
}

type fakeOrderRepo struct {
	st *fakeState
	mu *sync.Mutex
}

func (r *fakeOrderRepo) Get(ctx context.Context, companyId string, orderId int) (*models.Order, error) {
	defer lockIf(r.mu)()
	order, ok := r.st.orders[orderId]
	if !ok || order.CompanyId != companyId {
		return nil, utils.ErrorRecordNotFound
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	defer lockIf(r.mu)()
	r.st.nextOrderId++
	order.ID = r.st.nextOrderId
	order.CreatedAt = time.Now().UTC()
	for i := range order.Items {
		r.st.nextOrderItemId++
		order.Items[i].ID = r.st.nextOrderItemId
		order.Items[i].OrderId = order.ID
	}
	r.st.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, order *models.Order, status models.OrderStatus) error {
	defer lockIf(r.mu)()
	stored, ok := r.st.orders[order.ID]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	stored.CurrentStatus = status
	order.CurrentStatus = status
	return nil
}

func (r *fakeOrderRepo) SaveTotals(ctx context.Context, order *models.Order) error {
	defer lockIf(r.mu)()
	stored, ok := r.st.orders[order.ID]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	stored.TotalAmount = order.TotalAmount
	return nil
}

func (r *fakeOrderRepo) CreateItem(ctx context.Context, item *models.OrderItem) error {
	defer lockIf(r.mu)()
	stored, ok := r.st.orders[item.OrderId]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	r.st.nextOrderItemId++
	item.ID = r.st.nextOrderItemId
	stored.Items = append(stored.Items, *item)
	return nil
}

func (r *fakeOrderRepo) SaveItem(ctx context.Context, item *models.OrderItem) error {
	defer lockIf(r.mu)()
	stored, ok := r.st.orders[item.OrderId]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	for i := range stored.Items {
		if stored.Items[i].ID == item.ID {
			stored.Items[i] = *item
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}

func (r *fakeOrderRepo) DeleteItem(ctx context.Context, orderId int, orderItemId int) error {
	defer lockIf(r.mu)()
	stored, ok := r.st.orders[orderId]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	remaining := stored.Items[:0]
	found := false
	for _, item := range stored.Items {
		if item.ID == orderItemId {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return utils.ErrorRecordNotFound
	}
	stored.Items = remaining
	return nil
}

func (r *fakeOrderRepo) NextSequence(ctx context.Context, companyId string, year int) (int64, error) {
	defer lockIf(r.mu)()
	r.st.seq[year]++
	return r.st.seq[year], nil
}

func (r *fakeOrderRepo) ListByCustomerStatusSince(ctx context.Context, companyId string, customerId int, status models.OrderStatus, since time.Time) ([]*models.Order, error) {
	defer lockIf(r.mu)()
	var out []*models.Order
	for _, order := range r.st.orders {
		if order.CompanyId != companyId || order.CustomerId != customerId {
			continue
		}
		if order.CurrentStatus != status || order.CreatedAt.Before(since) {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeBOMRepo struct {
	st *fakeState
	mu *sync.Mutex
}

func (r *fakeBOMRepo) GetForItem(ctx context.Context, companyId string, itemId int) (*models.BillOfMaterial, error) {
	defer lockIf(r.mu)()
	bom, ok := r.st.boms[itemId]
	if !ok || bom.CompanyId != companyId {
		return nil, nil
	}
	copied := *bom
	copied.Items = append([]models.BOMItem(nil), bom.Items...)
	return &copied, nil
}

type fakeCustomerRepo struct {
	st *fakeState
	mu *sync.Mutex
}

func (r *fakeCustomerRepo) Exists(ctx context.Context, companyId string, customerId int) error {
	defer lockIf(r.mu)()
	if !r.st.customers[customerId] {
		return utils.ErrorRecordNotFound
	}
	return nil
}
