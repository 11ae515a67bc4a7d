package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/nordverk/factora_backend/config"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeds one company with a small manufacturing dataset: a customer, raw
// materials with opening stock, and a manufactured good with a bill of
// material. Dev/demo use only.
func main() {
	companyId := flag.String("company-id", "", "Company to seed (required).")
	flag.Parse()

	if strings.TrimSpace(*companyId) == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-demo -company-id <id>")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx := utils.SetCompanyIdInContext(context.Background(), *companyId)
	if err := seed(ctx, db, *companyId); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
	fmt.Println("seeded company", *companyId)
}

func seed(ctx context.Context, db *gorm.DB, companyId string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer := &models.Customer{CompanyId: companyId, Name: "Nordverk Demo AB", Email: "demo@nordverk.example"}
		if err := tx.Create(customer).Error; err != nil {
			return err
		}

		oak := &models.InventoryItem{
			CompanyId:    companyId,
			Sku:          "RM-OAK-01",
			Name:         "Oak board 25mm",
			Kind:         models.ItemKindRawMaterial,
			CostPrice:    decimal.NewFromInt(120),
			SalesPrice:   decimal.NewFromInt(180),
			ReorderLevel: decimal.NewFromInt(40),
			LeadTimeDays: 7,
		}
		screws := &models.InventoryItem{
			CompanyId:    companyId,
			Sku:          "RM-SCR-04",
			Name:         "Wood screw 4x40 (100pk)",
			Kind:         models.ItemKindRawMaterial,
			CostPrice:    decimal.NewFromInt(35),
			SalesPrice:   decimal.NewFromInt(55),
			ReorderLevel: decimal.NewFromInt(10),
			LeadTimeDays: 3,
		}
		table := &models.InventoryItem{
			CompanyId:  companyId,
			Sku:        "FG-TBL-01",
			Name:       "Dining table",
			Kind:       models.ItemKindManufacturedGood,
			CostPrice:  decimal.NewFromInt(700),
			SalesPrice: decimal.NewFromInt(1450),
		}
		for _, item := range []*models.InventoryItem{oak, screws, table} {
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		bom := &models.BillOfMaterial{
			CompanyId: companyId,
			ItemId:    table.ID,
			LaborCost: decimal.NewFromInt(150),
			Items: []models.BOMItem{
				{ComponentItemId: oak.ID, Quantity: decimal.NewFromInt(4)},
				{ComponentItemId: screws.ID, Quantity: decimal.NewFromInt(2)},
			},
		}
		if err := tx.Create(bom).Error; err != nil {
			return err
		}

		opening := []*models.InventoryTransaction{
			newOpeningRow(companyId, oak.ID, decimal.NewFromInt(200)),
			newOpeningRow(companyId, screws.ID, decimal.NewFromInt(50)),
			newOpeningRow(companyId, table.ID, decimal.NewFromInt(12)),
		}
		for _, row := range opening {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func newOpeningRow(companyId string, itemId int, qty decimal.Decimal) *models.InventoryTransaction {
	return &models.InventoryTransaction{
		ID:        uuid.NewString(),
		CompanyId: companyId,
		ItemId:    itemId,
		Quantity:  qty,
		Kind:      models.TransactionKindAdjustment,
		Reference: "opening-stock",
		Note:      "seed-demo opening balance",
	}
}
