package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed input. Validation always happens before
// any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError carries both ends of a rejected status change.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// InvalidOperationError reports an order item mutation attempted outside Draft.
type InvalidOperationError struct {
	Operation string
	Status    OrderStatus
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s is not permitted while order is %s", e.Operation, e.Status)
}

// StockShortfall is one line of an availability report that came up short.
type StockShortfall struct {
	ItemId    int             `json:"item_id"`
	Name      string          `json:"name"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// InsufficientStockError aborts a confirm with the full shortfall list.
// The order and the ledger are untouched when this is returned.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requested %s, available %s)", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// ConcurrencyConflictError wraps a storage-level serialization failure
// (deadlock, lock wait timeout). Callers decide whether to retry.
type ConcurrencyConflictError struct {
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	return "concurrency conflict: " + e.Err.Error()
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return e.Err
}
