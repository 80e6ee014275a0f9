package cart

import (
	"context"
	"testing"

	"comanda/catalog"
	"comanda/models"
)

func testCatalog() *catalog.MemoryLookup {
	return catalog.NewMemoryLookup(
		models.Product{ProductID: "p1", Name: "Burger", Price: 18.50, Available: true},
		models.Product{ProductID: "p2", Name: "Fries", Price: 9.00, Available: true},
		models.Product{ProductID: "p3", Name: "Shake", Price: 12.00, Available: false},
	)
}

func TestReconcileDropsUnknownProducts(t *testing.T) {
	items := []models.ClientCartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "ghost", Quantity: 1},
	}

	cart, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line after dropping unknown product, got %d", len(cart.Lines))
	}
	if cart.Lines[0].ProductID != "p1" {
		t.Errorf("expected p1 to survive, got %s", cart.Lines[0].ProductID)
	}
}

func TestReconcileDropsUnavailableProducts(t *testing.T) {
	items := []models.ClientCartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p3", Quantity: 2},
	}

	cart, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	for _, line := range cart.Lines {
		if line.ProductID == "p3" {
			t.Error("unavailable product p3 survived reconciliation")
		}
	}
}

func TestReconcileIgnoresClientPrices(t *testing.T) {
	// The snapshot type carries no price field at all; whatever a tampered
	// client sends, the reconciled cart prices come from the catalog.
	items := []models.ClientCartItem{{ProductID: "p1", Quantity: 1}}

	cart, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if cart.Lines[0].UnitPrice != 18.50 {
		t.Errorf("expected catalog price 18.50, got %v", cart.Lines[0].UnitPrice)
	}
	if cart.Lines[0].Name != "Burger" {
		t.Errorf("expected catalog name, got %q", cart.Lines[0].Name)
	}
}

func TestReconcileClampsQuantities(t *testing.T) {
	items := []models.ClientCartItem{
		{ProductID: "p1", Quantity: 999},
		{ProductID: "p2", Quantity: -4},
	}

	cart, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	for _, line := range cart.Lines {
		if line.Quantity < models.MinQuantity || line.Quantity > models.MaxQuantity {
			t.Errorf("line %s quantity %d outside [%d,%d]",
				line.ProductID, line.Quantity, models.MinQuantity, models.MaxQuantity)
		}
	}
}

func TestReconcileMergesDuplicateItems(t *testing.T) {
	items := []models.ClientCartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
	}

	cart, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected duplicates merged into 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", cart.Lines[0].Quantity)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	items := []models.ClientCartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}

	first, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	second, err := Reconcile(context.Background(), testCatalog(), "u1", items)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	if len(first.Lines) != len(second.Lines) {
		t.Fatalf("reconcile not idempotent: %d vs %d lines", len(first.Lines), len(second.Lines))
	}
	for i := range first.Lines {
		if first.Lines[i] != second.Lines[i] {
			t.Errorf("line %d differs: %+v vs %+v", i, first.Lines[i], second.Lines[i])
		}
	}
	if first.Total() != second.Total() {
		t.Errorf("totals differ: %v vs %v", first.Total(), second.Total())
	}
}
