package supplier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"pharmabackend/internal/data"
)

func setupTestDB(t *testing.T) {
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
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestSupplierHandlers(t *testing.T) {
	setupTestDB(t)

	var created data.Supplier

	t.Run("Create", func(t *testing.T) {
		w := postJSON(SaveSupplierHandler, "/suppliers/save",
			`{"name": "Global Pharma", "contact": "sales@globalpharma.com"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Data data.Supplier `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		created = resp.Data
		if created.ID <= 0 || created.Name != "Global Pharma" {
			t.Errorf("unexpected supplier: %+v", created)
		}
	})

	t.Run("RenameDoesNotCascadeToProducts", func(t *testing.T) {
		productID, err := data.NewProductRepository().Insert(data.Product{
			Name: "Panadol 500mg", Category: "Analgesics", Supplier: "Global Pharma",
		})
		if err != nil {
			t.Fatalf("Insert product failed: %v", err)
		}

		body := fmt.Sprintf(`{"id": %d, "name": "Global Pharma Intl", "contact": "sales@globalpharma.com"}`, created.ID)
		w := postJSON(SaveSupplierHandler, "/suppliers/save", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		p, err := data.NewProductRepository().GetByID(productID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if p.Supplier != "Global Pharma" {
			t.Errorf("product supplier changed on rename: %s", p.Supplier)
		}
	})

	t.Run("List", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/suppliers", nil)
		w := httptest.NewRecorder()
		SuppliersHandler(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			Data []data.Supplier `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].Name != "Global Pharma Intl" {
			t.Errorf("unexpected suppliers: %+v", resp.Data)
		}
	})

	t.Run("UpdateMissingIs404", func(t *testing.T) {
		w := postJSON(SaveSupplierHandler, "/suppliers/save",
			`{"id": 99999, "name": "Ghost", "contact": "ghost@void.com"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		body := fmt.Sprintf(`{"id": %d}`, created.ID)
		w := postJSON(DeleteSupplierHandler, "/suppliers/delete", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		if _, err := data.NewSupplierRepository().GetByID(created.ID); err != data.ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		// Products keep the stale name.
		products, err := data.NewProductRepository().GetAll()
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if len(products) != 1 || products[0].Supplier != "Global Pharma" {
			t.Errorf("unexpected products after supplier delete: %+v", products)
		}
	})

	t.Run("InvalidPayloadIs400", func(t *testing.T) {
		w := postJSON(SaveSupplierHandler, "/suppliers/save", `{"name": "No Contact"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
