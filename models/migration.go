package models

import (
	"log"

	"github.com/nordverk/factora_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Customer{},
		&InventoryItem{}, &InventoryTransaction{},
		&BillOfMaterial{}, &BOMItem{},
		&Order{}, &OrderItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
