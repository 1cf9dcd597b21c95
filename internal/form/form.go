// internal/form/form.go
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every payload rejection so handlers can map it to a
// 400 before any store access happens.
var ErrValidation = errors.New("validation error")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request payloads for the mutation entry points. Tags mirror what the
// front-end forms submit.

type ProductRequest struct {
	ID          int64   `json:"id"` // zero for create
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	StockQty    int     `json:"stockQty" validate:"gte=0"`
	Description string  `json:"description"`
	Supplier    string  `json:"supplier"`
	Location    string  `json:"location"`
}

type RestockRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type OrderRequest struct {
	ProductID    int64  `json:"productId" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	CustomerName string `json:"customerName" validate:"required"`
	Status       string `json:"status"` // free-form; defaults to pending
}

type OrderStatusRequest struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
}

type SupplierRequest struct {
	ID      int64  `json:"id"` // zero for create
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

type AdminRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type DeleteRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// DecodeAndValidate parses a JSON request body into v and runs its
// validation tags. Any failure comes back wrapped in ErrValidation.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("%w: content-type must be application/json", ErrValidation)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields() // Strict parsing
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("failed to validate payload: %w", err)
		}
		return fmt.Errorf("%w: %s", ErrValidation, describeFieldErrors(err))
	}

	return nil
}

func describeFieldErrors(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("field %s failed %s check", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
