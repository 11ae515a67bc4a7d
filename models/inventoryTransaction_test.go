package models_test

import (
	"math/rand"
	"testing"

	"github.com/nordverk/factora_backend/models"
	"github.com/shopspring/decimal"
)

func ledgerRow(kind models.TransactionKind, qty int64) models.InventoryTransaction {
	return models.InventoryTransaction{
		Quantity: decimal.NewFromInt(qty),
		Kind:     kind,
	}
}

func TestEffectSigns(t *testing.T) {
	if got := ledgerRow(models.TransactionKindPurchase, 10).Effect(); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("purchase effect = %s, want 10", got)
	}
	if got := ledgerRow(models.TransactionKindSale, 4).Effect(); !got.Equal(decimal.NewFromInt(-4)) {
		t.Errorf("sale effect = %s, want -4", got)
	}
	if got := ledgerRow(models.TransactionKindAdjustment, 3).Effect(); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("adjustment effect = %s, want 3", got)
	}
}

func TestLedgerBalance(t *testing.T) {
	rows := []models.InventoryTransaction{
		ledgerRow(models.TransactionKindPurchase, 100),
		ledgerRow(models.TransactionKindSale, 30),
		ledgerRow(models.TransactionKindAdjustment, 5),
		ledgerRow(models.TransactionKindSale, 20),
	}
	if got := models.LedgerBalance(rows); !got.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("balance = %s, want 55", got)
	}
	if got := models.LedgerBalance(nil); !got.Equal(decimal.Zero) {
		t.Fatalf("empty balance = %s, want 0", got)
	}
}

// The balance is a pure sum, so row order must never matter.
func TestLedgerBalanceOrderIndependent(t *testing.T) {
	rows := []models.InventoryTransaction{
		ledgerRow(models.TransactionKindPurchase, 50),
		ledgerRow(models.TransactionKindSale, 12),
		ledgerRow(models.TransactionKindAdjustment, 7),
		ledgerRow(models.TransactionKindSale, 9),
		ledgerRow(models.TransactionKindPurchase, 3),
	}
	want := models.LedgerBalance(rows)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.InventoryTransaction, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := models.LedgerBalance(shuffled); !got.Equal(want) {
			t.Fatalf("permutation %d: balance = %s, want %s", i, got, want)
		}
	}
}
