package audit

import (
	"path/filepath"
	"testing"

	"pharmabackend/internal/data"
	"pharmabackend/internal/inventory"
)

func setupTestDB(t *testing.T) *inventory.Service {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := data.InitDB(dbPath); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if err := data.CreateTables(); err != nil {
		t.Fatalf("CreateTables failed: %v", err)
	}
	t.Cleanup(func() {
		if err := data.CloseDB(); err != nil {
			t.Errorf("CloseDB failed: %v", err)
		}
	})

	return inventory.NewService()
}

func TestRunAudit(t *testing.T) {
	svc := setupTestDB(t)
	t.Setenv("EMAIL_MOCK_MODE", "true")

	t.Run("CleanInventoryPasses", func(t *testing.T) {
		if _, err := svc.CreateProduct(data.Product{Name: "Panadol 500mg", Category: "Analgesics", StockQty: 150}); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}

		if err := RunAudit(); err != nil {
			t.Fatalf("RunAudit failed: %v", err)
		}
	})

	t.Run("FindsLowStockAndDesync", func(t *testing.T) {
		if _, err := svc.CreateProduct(data.Product{Name: "Multivitamin Gold", Category: "Supplements", StockQty: 20}); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}

		// Simulate a stock edit that bypassed the inventory operations.
		desynced, err := svc.CreateProduct(data.Product{Name: "Aspirin 81mg", Category: "Analgesics", StockQty: 300})
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if err := data.NewProductRepository().UpdateStockQty(desynced.ID, 250); err != nil {
			t.Fatalf("UpdateStockQty failed: %v", err)
		}

		// Mock mode: findings go to the log, no sendmail involved.
		if err := RunAudit(); err != nil {
			t.Fatalf("RunAudit failed: %v", err)
		}
	})
}
