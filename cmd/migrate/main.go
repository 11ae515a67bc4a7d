package main

import (
	"fmt"
	"os"

	"github.com/nordverk/factora_backend/config"
	"github.com/nordverk/factora_backend/models"
)

// Runs AutoMigrate as a standalone job so API instances can start with
// SKIP_MIGRATIONS=true.
func main() {
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	models.MigrateTable()
	fmt.Println("migrations applied")
}
