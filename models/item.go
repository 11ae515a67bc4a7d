package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID                int             `gorm:"primary_key" json:"id"`
	CompanyId         string          `gorm:"index:idx_items_company_sku,priority:1;not null" json:"company_id" binding:"required"`
	Sku               string          `gorm:"size:100;index:idx_items_company_sku,priority:2,unique;not null" json:"sku" binding:"required"`
	Name              string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Kind              ItemKind        `gorm:"type:enum('RawMaterial','ManufacturedGood');default:RawMaterial" json:"kind" binding:"required"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SalesPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	ReorderLevel      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_level"`
	MinimumStockLevel decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_stock_level"`
	LeadTimeDays      int             `gorm:"default:0" json:"lead_time_days"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInventoryItem struct {
	Sku               string          `json:"sku" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Kind              ItemKind        `json:"kind" validate:"required"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SalesPrice        decimal.Decimal `json:"sales_price"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level"`
	LeadTimeDays      int             `json:"lead_time_days" validate:"gte=0"`
}

func (i InventoryItem) GetId() int {
	return i.ID
}
