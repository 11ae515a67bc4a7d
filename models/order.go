package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int             `gorm:"primary_key" json:"id"`
	CompanyId     string          `gorm:"index:idx_orders_company_number,priority:1;not null" json:"company_id" binding:"required"`
	OrderNumber   string          `gorm:"size:50;index:idx_orders_company_number,priority:2,unique;not null" json:"order_number"`
	SequenceYear  int             `gorm:"not null" json:"sequence_year"`
	SequenceNo    int64           `gorm:"not null" json:"sequence_no"`
	CustomerId    int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	CurrentStatus OrderStatus     `gorm:"type:enum('Draft','QuoteSent','QuoteAccepted','QuoteRejected','Confirmed','InProduction','Shipped','Delivered','Invoiced','Cancelled');not null" json:"current_status"`
	// TotalAmount is a display cache, recomputed on every item mutation.
	// The line items are authoritative.
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderId" json:"items"`
}

type OrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   int             `gorm:"index;not null" json:"order_id"`
	ItemId    int             `gorm:"not null" json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
}

type NewOrder struct {
	CustomerId int            `json:"customer_id" validate:"required,gt=0"`
	Notes      string         `json:"notes"`
	Items      []NewOrderItem `json:"items" validate:"dive"`
}

type NewOrderItem struct {
	ItemId    int             `json:"item_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (o Order) GetId() int {
	return o.ID
}

// RecalculateTotal refreshes the cached display total from the line items.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	o.TotalAmount = total
}

// FormatOrderNumber renders the ORD-{yy}-{NNNNN} document number.
func FormatOrderNumber(year int, seq int64) string {
	return fmt.Sprintf("ORD-%02d-%05d", year%100, seq)
}
