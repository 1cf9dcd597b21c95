package form

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeAndValidate(t *testing.T) {
	t.Run("AcceptsValidPayload", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/products/restock", strings.NewReader(`{"productId": 3, "quantity": 50}`))
		r.Header.Set("Content-Type", "application/json")

		var req RestockRequest
		if err := DecodeAndValidate(r, &req); err != nil {
			t.Fatalf("DecodeAndValidate failed: %v", err)
		}
		if req.ProductID != 3 || req.Quantity != 50 {
			t.Errorf("unexpected payload: %+v", req)
		}
	})

	t.Run("RejectsMissingContentType", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/products/restock", strings.NewReader(`{"productId": 3, "quantity": 50}`))

		var req RestockRequest
		if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("RejectsUnknownFields", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/products/restock", strings.NewReader(`{"productId": 3, "quantity": 50, "extra": true}`))
		r.Header.Set("Content-Type", "application/json")

		var req RestockRequest
		if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("RejectsMalformedJSON", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/products/restock", strings.NewReader(`{"productId": `))
		r.Header.Set("Content-Type", "application/json")

		var req RestockRequest
		if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		for _, body := range []string{
			`{"productId": 3, "quantity": 0}`,
			`{"productId": 3, "quantity": -5}`,
		} {
			r := httptest.NewRequest("POST", "/products/restock", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			var req RestockRequest
			if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
				t.Errorf("body %s: expected ErrValidation, got %v", body, err)
			}
		}
	})
}

func TestProductRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Valid", `{"name": "Panadol 500mg", "category": "Analgesics", "unitPrice": 2.5, "stockQty": 150}`, false},
		{"ValidZeroStock", `{"name": "Empty", "category": "Test", "unitPrice": 1, "stockQty": 0}`, false},
		{"MissingName", `{"category": "Analgesics", "unitPrice": 2.5, "stockQty": 150}`, true},
		{"MissingCategory", `{"name": "Panadol 500mg", "unitPrice": 2.5, "stockQty": 150}`, true},
		{"NegativePrice", `{"name": "Panadol 500mg", "category": "Analgesics", "unitPrice": -1, "stockQty": 150}`, true},
		{"NegativeStock", `{"name": "Panadol 500mg", "category": "Analgesics", "unitPrice": 2.5, "stockQty": -1}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/products/save", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")

			var req ProductRequest
			err := DecodeAndValidate(r, &req)
			if tc.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected payload to pass, got %v", err)
			}
		})
	}
}

func TestOrderRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Valid", `{"productId": 1, "quantity": 3, "customerName": "Ali Hassan"}`, false},
		{"ValidWithStatus", `{"productId": 1, "quantity": 3, "customerName": "Ali Hassan", "status": "completed"}`, false},
		{"MissingCustomer", `{"productId": 1, "quantity": 3}`, true},
		{"ZeroQuantity", `{"productId": 1, "quantity": 0, "customerName": "Ali Hassan"}`, true},
		{"MissingProduct", `{"quantity": 3, "customerName": "Ali Hassan"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/orders", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")

			var req OrderRequest
			err := DecodeAndValidate(r, &req)
			if tc.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected payload to pass, got %v", err)
			}
		})
	}
}

func TestAdminRequestValidation(t *testing.T) {
	r := httptest.NewRequest("POST", "/admins/save", strings.NewReader(`{"username": "ab", "password": "secret99", "role": "Admin"}`))
	r.Header.Set("Content-Type", "application/json")

	var req AdminRequest
	if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
		t.Errorf("expected short username to fail, got %v", err)
	}

	r = httptest.NewRequest("POST", "/admins/save", strings.NewReader(`{"username": "pharmacist", "password": "abc", "role": "Admin"}`))
	r.Header.Set("Content-Type", "application/json")

	if err := DecodeAndValidate(r, &req); !errors.Is(err, ErrValidation) {
		t.Errorf("expected short password to fail, got %v", err)
	}
}
