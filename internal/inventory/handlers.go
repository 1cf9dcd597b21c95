// internal/inventory/handlers.go
package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"pharmabackend/internal/data"
	"pharmabackend/internal/form"
	"pharmabackend/internal/ledger"
	"pharmabackend/internal/logger"
	"pharmabackend/internal/middleware"
)

// writeOperationError maps the error taxonomy onto HTTP responses.
func writeOperationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Referenced record does not exist", "")
	case errors.Is(err, ErrInsufficientStock):
		middleware.WriteAPIError(w, r, http.StatusConflict, "insufficient_stock", "Sale quantity exceeds current stock", "")
	case errors.Is(err, ledger.ErrInvalidQuantity), errors.Is(err, form.ErrValidation):
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "validation_error", err.Error(), "")
	default:
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "store_error", "Storage operation failed", "")
	}
}

// ProductsHandler lists all products.
func ProductsHandler(w http.ResponseWriter, r *http.Request) {
	svc := NewService()

	if id := r.URL.Query().Get("id"); id != "" {
		productID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			middleware.WriteAPIError(w, r, http.StatusBadRequest, "validation_error", "id must be an integer", "")
			return
		}
		product, err := svc.GetProduct(productID)
		if err != nil {
			writeOperationError(w, r, err)
			return
		}
		middleware.WriteAPISuccess(w, r, product)
		return
	}

	products, err := svc.ListProducts()
	if err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, products)
}

// SaveProductHandler creates a product (with its Initial ledger entry) or,
// when the payload carries an id, updates the existing row in place.
func SaveProductHandler(w http.ResponseWriter, r *http.Request) {
	var req form.ProductRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	p := data.Product{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		StockQty:    req.StockQty,
		Description: req.Description,
		Supplier:    req.Supplier,
		Location:    req.Location,
	}

	svc := NewService()
	if req.ID > 0 {
		if err := svc.UpdateProduct(p); err != nil {
			writeOperationError(w, r, err)
			return
		}
		middleware.WriteAPISuccess(w, r, p)
		return
	}

	created, err := svc.CreateProduct(p)
	if err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, created)
}

// RestockHandler adds stock to a product.
func RestockHandler(w http.ResponseWriter, r *http.Request) {
	var req form.RestockRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	updated, err := NewService().Restock(req.ProductID, req.Quantity)
	if err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, updated)
}

// OrdersHandler lists orders (GET) or places one (POST).
func OrdersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		orders, err := NewService().ListOrders()
		if err != nil {
			writeOperationError(w, r, err)
			return
		}
		middleware.WriteAPISuccess(w, r, orders)
	case http.MethodPost:
		placeOrder(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		middleware.WriteAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or POST", "")
	}
}

func placeOrder(w http.ResponseWriter, r *http.Request) {
	var req form.OrderRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	order, err := NewService().PlaceOrder(req.ProductID, req.Quantity, req.CustomerName, req.Status)
	if err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, order)
}

// OrderStatusHandler edits an order's status field only.
func OrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req form.OrderStatusRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	if err := NewService().UpdateOrderStatus(req.OrderID, req.Status); err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, map[string]interface{}{"orderId": req.OrderID, "status": req.Status})
}

// DeleteProductHandler removes a product row.
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	var req form.DeleteRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	if err := NewService().DeleteProduct(req.ID); err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, map[string]int64{"deleted": req.ID})
}

// DeleteOrderHandler removes an order row.
func DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req form.DeleteRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeOperationError(w, r, err)
		return
	}

	if err := NewService().DeleteOrder(req.ID); err != nil {
		writeOperationError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, map[string]int64{"deleted": req.ID})
}
