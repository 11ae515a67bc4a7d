package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nordverk/factora_backend/config"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/nordverk/factora_backend/workflow"
)

// Prints the replenishment alert list for one company, most urgent first.
// Intended for cron / ops use ahead of purchasing runs.
func main() {
	companyId := flag.String("company-id", "", "Company to report on (required).")
	flag.Parse()

	if strings.TrimSpace(*companyId) == "" {
		fmt.Fprintln(os.Stderr, "usage: replenishment-report -company-id <id>")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := utils.SetCompanyIdInContext(context.Background(), *companyId)

	scorer := workflow.NewReplenishmentScorer(repository.NewGormStore(db))
	alerts, err := scorer.Alerts(ctx, *companyId)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replenishment report failed:", err)
		os.Exit(1)
	}

	if len(alerts) == 0 {
		fmt.Println("no raw materials at or below reorder level")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSKU\tNAME\tON HAND\tREORDER LEVEL\tLEAD DAYS")
	for _, a := range alerts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			a.UrgencyScore, a.Sku, a.Name, a.OnHand.String(), a.ReorderLevel.String(), a.LeadTimeDays)
	}
	w.Flush()
}
