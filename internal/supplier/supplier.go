// internal/supplier/supplier.go
package supplier

import (
	"errors"
	"net/http"

	"pharmabackend/internal/data"
	"pharmabackend/internal/form"
	"pharmabackend/internal/logger"
	"pharmabackend/internal/middleware"
)

// Suppliers are an independent collection. Products reference them by name
// only, so none of these operations touch the products table.

func writeSupplierError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Supplier does not exist", "")
	case errors.Is(err, form.ErrValidation):
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "validation_error", err.Error(), "")
	default:
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "store_error", "Storage operation failed", "")
	}
}

// SuppliersHandler lists all suppliers.
func SuppliersHandler(w http.ResponseWriter, r *http.Request) {
	suppliers, err := data.NewSupplierRepository().GetAll()
	if err != nil {
		writeSupplierError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, suppliers)
}

// SaveSupplierHandler creates a supplier or updates one by id.
func SaveSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req form.SupplierRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeSupplierError(w, r, err)
		return
	}

	repo := data.NewSupplierRepository()
	s := data.Supplier{ID: req.ID, Name: req.Name, Contact: req.Contact}

	if req.ID > 0 {
		if err := repo.Update(s); err != nil {
			writeSupplierError(w, r, err)
			return
		}
		logger.LogInfo("Updated supplier %d (%s)", s.ID, s.Name)
		middleware.WriteAPISuccess(w, r, s)
		return
	}

	id, err := repo.Insert(s)
	if err != nil {
		writeSupplierError(w, r, err)
		return
	}
	s.ID = id
	logger.LogInfo("Created supplier %d (%s)", s.ID, s.Name)
	middleware.WriteAPISuccess(w, r, s)
}

// DeleteSupplierHandler removes a supplier. Products that carry its name
// keep the stale reference.
func DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req form.DeleteRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeSupplierError(w, r, err)
		return
	}

	if err := data.NewSupplierRepository().Delete(req.ID); err != nil {
		writeSupplierError(w, r, err)
		return
	}
	logger.LogInfo("Deleted supplier %d", req.ID)
	middleware.WriteAPISuccess(w, r, map[string]int64{"deleted": req.ID})
}
