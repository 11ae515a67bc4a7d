package workflow_test

import (
	"context"
	"testing"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/workflow"
	"github.com/shopspring/decimal"
)

func rawMaterial(id int, sku string, reorderLevel int64, leadTimeDays int) *models.InventoryItem {
	return &models.InventoryItem{
		ID:           id,
		CompanyId:    testCompany,
		Sku:          sku,
		Name:         sku,
		Kind:         models.ItemKindRawMaterial,
		ReorderLevel: decimal.NewFromInt(reorderLevel),
		LeadTimeDays: leadTimeDays,
	}
}

func TestReplenishmentAlerts(t *testing.T) {
	store := newFakeStore()
	store.addItem(rawMaterial(1, "RM-A", 10, 5)) // out of stock, long lead
	store.addItem(rawMaterial(2, "RM-B", 10, 0)) // at 2 of 10
	store.addItem(rawMaterial(3, "RM-C", 10, 0)) // at 4 of 10
	store.addItem(rawMaterial(4, "RM-D", 10, 0)) // at 8 of 10
	store.addItem(rawMaterial(5, "RM-E", 10, 0)) // healthy
	store.addStock(testCompany, 2, 2)
	store.addStock(testCompany, 3, 4)
	store.addStock(testCompany, 4, 8)
	store.addStock(testCompany, 5, 50)

	// Manufactured goods never appear, however low.
	store.addItem(&models.InventoryItem{
		ID: 6, CompanyId: testCompany, Sku: "FG-X", Name: "FG-X",
		Kind: models.ItemKindManufacturedGood, ReorderLevel: decimal.NewFromInt(100),
	})

	scorer := workflow.NewReplenishmentScorer(store)
	alerts, err := scorer.Alerts(context.Background(), testCompany)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 4 {
		t.Fatalf("alerts = %d, want 4", len(alerts))
	}

	wantScores := map[string]int{
		"RM-A": 100, // base 100 capped (lead boost can't exceed it)
		"RM-B": 90,  // ratio 0.2
		"RM-C": 70,  // ratio 0.4
		"RM-D": 50,  // ratio 0.8
	}
	for _, alert := range alerts {
		if want, ok := wantScores[alert.Sku]; !ok {
			t.Errorf("unexpected alert for %s", alert.Sku)
		} else if alert.UrgencyScore != want {
			t.Errorf("score for %s = %d, want %d", alert.Sku, alert.UrgencyScore, want)
		}
	}

	// Most urgent first.
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].UrgencyScore < alerts[i].UrgencyScore {
			t.Fatalf("alerts not sorted by urgency: %d before %d", alerts[i-1].UrgencyScore, alerts[i].UrgencyScore)
		}
	}
	if alerts[0].Sku != "RM-A" {
		t.Errorf("most urgent = %s, want RM-A", alerts[0].Sku)
	}
}

func TestReplenishmentLeadTimeBoost(t *testing.T) {
	store := newFakeStore()
	store.addItem(rawMaterial(1, "RM-A", 10, 5))  // ratio 0.4 -> 70 + 10
	store.addItem(rawMaterial(2, "RM-B", 10, 30)) // ratio 0.4 -> 70 + capped 20
	store.addStock(testCompany, 1, 4)
	store.addStock(testCompany, 2, 4)

	scorer := workflow.NewReplenishmentScorer(store)
	alerts, err := scorer.Alerts(context.Background(), testCompany)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	scores := map[string]int{}
	for _, a := range alerts {
		scores[a.Sku] = a.UrgencyScore
	}
	if scores["RM-A"] != 80 {
		t.Errorf("RM-A score = %d, want 80", scores["RM-A"])
	}
	if scores["RM-B"] != 90 {
		t.Errorf("RM-B score = %d, want 90 (lead boost capped at 20)", scores["RM-B"])
	}
}

func TestReplenishmentZeroReorderLevel(t *testing.T) {
	store := newFakeStore()
	store.addItem(rawMaterial(1, "RM-A", 0, 0))
	store.addItem(rawMaterial(2, "RM-B", 0, 0))
	store.addItem(rawMaterial(3, "RM-C", 0, 4))
	store.addStock(testCompany, 2, 1)

	scorer := workflow.NewReplenishmentScorer(store)
	alerts, err := scorer.Alerts(context.Background(), testCompany)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	// Zero reorder level alerts only on exhausted stock, and scores the
	// fixed baseline 50 rather than the exhausted 100.
	if len(alerts) != 2 {
		t.Fatalf("alerts = %+v, want RM-A and RM-C", alerts)
	}
	scores := map[string]int{}
	for _, a := range alerts {
		scores[a.Sku] = a.UrgencyScore
	}
	if scores["RM-A"] != 50 {
		t.Errorf("baseline score = %d, want 50", scores["RM-A"])
	}
	if scores["RM-C"] != 58 {
		t.Errorf("baseline with lead boost = %d, want 58", scores["RM-C"])
	}
}

func TestReplenishmentNoMaterials(t *testing.T) {
	store := newFakeStore()
	scorer := workflow.NewReplenishmentScorer(store)

	alerts, err := scorer.Alerts(context.Background(), testCompany)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, want 0", len(alerts))
	}
}
