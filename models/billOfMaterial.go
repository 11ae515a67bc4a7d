package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillOfMaterial is the recipe for one unit of a manufactured item:
// component quantities plus manual labor cost. One BOM per item.
type BillOfMaterial struct {
	ID        int             `gorm:"primary_key" json:"id"`
	CompanyId string          `gorm:"index:idx_bom_company_item,priority:1;not null" json:"company_id" binding:"required"`
	ItemId    int             `gorm:"index:idx_bom_company_item,priority:2,unique;not null" json:"item_id" binding:"required"`
	LaborCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"labor_cost"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items     []BOMItem       `gorm:"foreignKey:BillOfMaterialId" json:"items"`
}

type BOMItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	BillOfMaterialId int             `gorm:"index;not null" json:"bill_of_material_id"`
	ComponentItemId  int             `gorm:"not null" json:"component_item_id" binding:"required"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity" binding:"required"`
}

func (b BillOfMaterial) GetId() int {
	return b.ID
}
