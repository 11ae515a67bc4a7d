package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type ItemKind string

const (
	ItemKindRawMaterial      ItemKind = "RawMaterial"
	ItemKindManufacturedGood ItemKind = "ManufacturedGood"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindRawMaterial, ItemKindManufacturedGood:
		return true
	}
	return false
}

func (k ItemKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	return scanEnum((*string)(k), value, "item kind")
}

type TransactionKind string

const (
	TransactionKindPurchase   TransactionKind = "Purchase"
	TransactionKindSale       TransactionKind = "Sale"
	TransactionKindAdjustment TransactionKind = "Adjustment"
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindPurchase, TransactionKindSale, TransactionKindAdjustment:
		return true
	}
	return false
}

func (k TransactionKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *TransactionKind) Scan(value interface{}) error {
	return scanEnum((*string)(k), value, "transaction kind")
}

type OrderStatus string

const (
	OrderStatusDraft         OrderStatus = "Draft"
	OrderStatusQuoteSent     OrderStatus = "QuoteSent"
	OrderStatusQuoteAccepted OrderStatus = "QuoteAccepted"
	OrderStatusQuoteRejected OrderStatus = "QuoteRejected"
	OrderStatusConfirmed     OrderStatus = "Confirmed"
	OrderStatusInProduction  OrderStatus = "InProduction"
	OrderStatusShipped       OrderStatus = "Shipped"
	OrderStatusDelivered     OrderStatus = "Delivered"
	OrderStatusInvoiced      OrderStatus = "Invoiced"
	OrderStatusCancelled     OrderStatus = "Cancelled"
)

// AllOrderStatuses lists every status once, for exhaustive checks.
var AllOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusQuoteSent,
	OrderStatusQuoteAccepted,
	OrderStatusQuoteRejected,
	OrderStatusConfirmed,
	OrderStatusInProduction,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusInvoiced,
	OrderStatusCancelled,
}

// orderStatusTransitions is the single authoritative transition table.
// No other status switch may exist; all dispatch goes through CanTransition.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:         {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusQuoteSent},
	OrderStatusQuoteSent:     {OrderStatusQuoteAccepted, OrderStatusQuoteRejected, OrderStatusCancelled},
	OrderStatusQuoteAccepted: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:     {OrderStatusInProduction, OrderStatusCancelled, OrderStatusShipped},
	OrderStatusInProduction:  {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:       {OrderStatusDelivered, OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusDelivered:     {OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusQuoteRejected: {},
	OrderStatusInvoiced:      {},
	OrderStatusCancelled:     {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderStatusTransitions[s]) == 0
}

// CanTransition reports whether s -> target is an allowed edge.
// Self-loops are never allowed.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the targets reachable from s.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	targets := orderStatusTransitions[s]
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	return scanEnum((*string)(s), value, "order status")
}

func scanEnum(dest *string, value interface{}, what string) error {
	switch v := value.(type) {
	case string:
		*dest = v
	case []byte:
		*dest = string(v)
	default:
		return errors.New(fmt.Sprint("cannot scan ", what, " from ", value))
	}
	return nil
}
