package report

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

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

func TestDashboard(t *testing.T) {
	svc := setupTestDB(t)

	// Two products, one below the default low-stock threshold of 30.
	if _, err := svc.CreateProduct(data.Product{Name: "Panadol 500mg", Category: "Analgesics", UnitPrice: 2.5, StockQty: 150}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	low, err := svc.CreateProduct(data.Product{Name: "Multivitamin Gold", Category: "Supplements", UnitPrice: 25.0, StockQty: 20})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if _, err := data.NewSupplierRepository().Insert(data.Supplier{Name: "Global Pharma", Contact: "sales@globalpharma.com"}); err != nil {
		t.Fatalf("Insert supplier failed: %v", err)
	}

	// One order today (PlaceOrder stamps the current time).
	if _, err := svc.PlaceOrder(low.ID, 2, "Ali Hassan", ""); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	summary := Dashboard()

	if summary.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", summary.TotalProducts)
	}
	if summary.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", summary.LowStockCount)
	}
	if summary.SupplierCount != 1 {
		t.Errorf("expected 1 supplier, got %d", summary.SupplierCount)
	}
	if summary.TodayOrderCount != 1 {
		t.Errorf("expected 1 order today, got %d", summary.TodayOrderCount)
	}

	// 150 * 2.5 + 18 * 25.0 after the sale of 2 units.
	wantValue := 150*2.5 + 18*25.0
	if summary.InventoryValue != wantValue {
		t.Errorf("expected inventory value %.2f, got %.2f", wantValue, summary.InventoryValue)
	}
}

func TestInsight(t *testing.T) {
	svc := setupTestDB(t)

	created, err := svc.CreateProduct(data.Product{Name: "Panadol 500mg", Category: "Analgesics", StockQty: 150})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.Restock(created.ID, 50); err != nil {
		t.Fatalf("Restock failed: %v", err)
	}
	if _, err := svc.PlaceOrder(created.ID, 30, "Ali Hassan", ""); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	insight, err := Insight(created.ID)
	if err != nil {
		t.Fatalf("Insight failed: %v", err)
	}

	if insight.Product.StockQty != 170 {
		t.Errorf("expected cached stock 170, got %d", insight.Product.StockQty)
	}

	want := []int{150, 200, 170}
	if len(insight.Trend) != len(want) {
		t.Fatalf("expected %d trend points, got %d", len(want), len(insight.Trend))
	}
	for i, w := range want {
		if insight.Trend[i].Quantity != w {
			t.Errorf("trend point %d: expected %d, got %d", i, w, insight.Trend[i].Quantity)
		}
	}

	if insight.Mix.Initial != 1 || insight.Mix.Purchases != 1 || insight.Mix.Sales != 1 {
		t.Errorf("unexpected mix: %+v", insight.Mix)
	}

	if _, err := Insight(99999); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing product, got %v", err)
	}
}

func TestFilteredTransactions(t *testing.T) {
	svc := setupTestDB(t)

	panadol, err := svc.CreateProduct(data.Product{Name: "Panadol 500mg", Category: "Analgesics", StockQty: 150})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	aspirin, err := svc.CreateProduct(data.Product{Name: "Aspirin 81mg", Category: "Analgesics", StockQty: 300})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.PlaceOrder(panadol.ID, 10, "Ali Hassan", ""); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	t.Run("NoFilterReturnsAll", func(t *testing.T) {
		records, err := FilteredTransactions(TransactionFilter{})
		if err != nil {
			t.Fatalf("FilteredTransactions failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
	})

	t.Run("NameFilterIsCaseInsensitiveSubstring", func(t *testing.T) {
		records, err := FilteredTransactions(TransactionFilter{ProductName: "panadol"})
		if err != nil {
			t.Fatalf("FilteredTransactions failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 Panadol records, got %d", len(records))
		}
		for _, rec := range records {
			if rec.ProductName != "Panadol 500mg" {
				t.Errorf("unexpected product in results: %s", rec.ProductName)
			}
		}
	})

	t.Run("TypeFilter", func(t *testing.T) {
		records, err := FilteredTransactions(TransactionFilter{Type: "Sale"})
		if err != nil {
			t.Fatalf("FilteredTransactions failed: %v", err)
		}
		if len(records) != 1 || records[0].Type != "Sale" {
			t.Errorf("unexpected sale records: %+v", records)
		}
	})

	t.Run("DateRangeExcludesOutside", func(t *testing.T) {
		past := time.Now().UTC().AddDate(0, 0, -10)
		records, err := FilteredTransactions(TransactionFilter{
			From: past,
			To:   past.AddDate(0, 0, 2),
		})
		if err != nil {
			t.Fatalf("FilteredTransactions failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records in past window, got %d", len(records))
		}
	})

	t.Run("DeletedProductShowsUnknown", func(t *testing.T) {
		if err := svc.DeleteProduct(aspirin.ID); err != nil {
			t.Fatalf("DeleteProduct failed: %v", err)
		}

		records, err := FilteredTransactions(TransactionFilter{})
		if err != nil {
			t.Fatalf("FilteredTransactions failed: %v", err)
		}

		found := false
		for _, rec := range records {
			if rec.ProductID == aspirin.ID {
				found = true
				if rec.ProductName != "Unknown Product" {
					t.Errorf("expected Unknown Product, got %s", rec.ProductName)
				}
			}
		}
		if !found {
			t.Error("orphaned ledger entry missing from history")
		}
	})
}

func TestFilteredOrders(t *testing.T) {
	svc := setupTestDB(t)

	created, err := svc.CreateProduct(data.Product{Name: "Dettol Antiseptic", Category: "Antiseptics", StockQty: 45})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	first, err := svc.PlaceOrder(created.ID, 2, "Ali Hassan", "")
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := svc.PlaceOrder(created.ID, 1, "Sara Ahmed", ""); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if err := svc.UpdateOrderStatus(first.ID, "completed"); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}

	t.Run("CustomerNameFilter", func(t *testing.T) {
		records, err := FilteredOrders(OrderFilter{CustomerName: "sara"})
		if err != nil {
			t.Fatalf("FilteredOrders failed: %v", err)
		}
		if len(records) != 1 || records[0].CustomerName != "Sara Ahmed" {
			t.Errorf("unexpected records: %+v", records)
		}
		if records[0].ProductName != "Dettol Antiseptic" {
			t.Errorf("expected joined product name, got %s", records[0].ProductName)
		}
	})

	t.Run("StatusFilter", func(t *testing.T) {
		records, err := FilteredOrders(OrderFilter{Status: "completed"})
		if err != nil {
			t.Fatalf("FilteredOrders failed: %v", err)
		}
		if len(records) != 1 || records[0].ID != first.ID {
			t.Errorf("unexpected records: %+v", records)
		}
	})
}

func TestTransactionsCSVHandler(t *testing.T) {
	svc := setupTestDB(t)

	created, err := svc.CreateProduct(data.Product{Name: "Panadol 500mg", Category: "Analgesics", StockQty: 150})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.PlaceOrder(created.ID, 30, "Ali Hassan", ""); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/reports/transactions.csv", nil)
	w := httptest.NewRecorder()
	TransactionsCSVHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pharmacy_report_") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date,Product,Type,Qty Change,Related To") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	// Newest first: the sale row precedes the initial row, with signed deltas.
	if !strings.Contains(lines[1], "Sale") || !strings.Contains(lines[1], "-30") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "Initial") || !strings.Contains(lines[2], "+150") {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestInsightHandlerValidation(t *testing.T) {
	setupTestDB(t)

	r := httptest.NewRequest("GET", "/reports/insight", nil)
	w := httptest.NewRecorder()
	InsightHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without product_id, got %d", w.Code)
	}

	r = httptest.NewRequest("GET", "/reports/insight?product_id=99999", nil)
	w = httptest.NewRecorder()
	InsightHandler(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing product, got %d", w.Code)
	}
}
