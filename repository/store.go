// Package repository defines narrow, per-entity persistence interfaces for
// the inventory/order core, plus the Store boundary that groups them into an
// atomic unit. Core services receive a Store at construction; nothing in the
// core reaches for an ambient DB handle.
package repository

import (
	"context"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/shopspring/decimal"
)

type Repos struct {
	Items     ItemRepository
	Ledger    LedgerRepository
	Orders    OrderRepository
	Boms      BOMRepository
	Customers CustomerRepository
}

type Store interface {
	// Repos returns autocommit repositories for single-statement reads/writes.
	Repos() Repos

	// Transact runs fn inside one atomic, isolated unit serialized per
	// company. Everything fn does through r commits together or not at all.
	Transact(ctx context.Context, companyId string, fn func(r Repos) error) error
}

type ItemRepository interface {
	// Get may return utils.ErrorRecordNotFound.
	Get(ctx context.Context, companyId string, itemId int) (*models.InventoryItem, error)
	// GetMany returns the found subset keyed by id; missing ids are absent.
	GetMany(ctx context.Context, companyId string, itemIds []int) (map[int]*models.InventoryItem, error)
	ListRawMaterials(ctx context.Context, companyId string) ([]*models.InventoryItem, error)
	// LockForUpdate takes row locks on the items for the rest of the
	// surrounding transaction. Only meaningful inside Store.Transact.
	LockForUpdate(ctx context.Context, companyId string, itemIds []int) error
}

type LedgerRepository interface {
	// Append inserts one immutable ledger row. There is no update or delete.
	Append(ctx context.Context, txn *models.InventoryTransaction) error
	// QuantityOnHand aggregates the ledger up to asOf (zero time = now)
	// per the models.LedgerBalance sum rule.
	QuantityOnHand(ctx context.Context, companyId string, itemId int, asOf time.Time) (decimal.Decimal, error)
	QuantitiesOnHand(ctx context.Context, companyId string, itemIds []int, asOf time.Time) (map[int]decimal.Decimal, error)
}

type OrderRepository interface {
	// Get may return utils.ErrorRecordNotFound. Items are preloaded.
	Get(ctx context.Context, companyId string, orderId int) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, order *models.Order, status models.OrderStatus) error
	// SaveTotals persists the recomputed display total.
	SaveTotals(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	SaveItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, orderId int, orderItemId int) error
	// NextSequence issues the next order sequence number for company+year.
	NextSequence(ctx context.Context, companyId string, year int) (int64, error)
	// ListByCustomerStatusSince returns orders (items preloaded) for a
	// customer in the given status created at or after since.
	ListByCustomerStatusSince(ctx context.Context, companyId string, customerId int, status models.OrderStatus, since time.Time) ([]*models.Order, error)
}

type BOMRepository interface {
	// GetForItem returns (nil, nil) when the item has no bill of material.
	GetForItem(ctx context.Context, companyId string, itemId int) (*models.BillOfMaterial, error)
}

type CustomerRepository interface {
	// Exists may return utils.ErrorRecordNotFound.
	Exists(ctx context.Context, companyId string, customerId int) error
}
