// internal/inventory/inventory.go
package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmabackend/internal/data"
	"pharmabackend/internal/ledger"
	"pharmabackend/internal/logger"
)

// ErrInsufficientStock is returned when a sale asks for more units than the
// product currently has. Nothing is written when this happens.
var ErrInsufficientStock = errors.New("insufficient stock")

const defaultOrderStatus = "pending"

// Service owns the three mutation paths that touch both a product's cached
// stock quantity and the ledger. Each operation runs its product write and
// ledger append in one database transaction, so the pair commits or rolls
// back together.
type Service struct {
	products *data.ProductRepository
	orders   *data.OrderRepository
	ledger   *ledger.Service
}

func NewService() *Service {
	return &Service{
		products: data.NewProductRepository(),
		orders:   data.NewOrderRepository(),
		ledger:   ledger.NewService(),
	}
}

// CreateProduct inserts a new product and records its initial stock as an
// Initial ledger entry. A product created with zero stock gets no entry;
// there is no event to record and the empty fold already equals zero.
func (s *Service) CreateProduct(p data.Product) (*data.Product, error) {
	if p.StockQty < 0 {
		return nil, fmt.Errorf("%w: initial stock must not be negative", ledger.ErrInvalidQuantity)
	}

	err := data.WithTx(func(tx *sql.Tx) error {
		id, err := s.products.WithTx(tx).Insert(p)
		if err != nil {
			return err
		}
		p.ID = id

		if p.StockQty > 0 {
			if _, err := s.ledger.WithTx(tx).Append(id, ledger.TypeInitial, p.StockQty, "Initial Setup", time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.LogInfo("Created product %d (%s) with initial stock %d", p.ID, p.Name, p.StockQty)
	return &p, nil
}

// UpdateProduct overwrites an existing product row. Deliberately no ledger
// entry, even when the stock field changes: only creation, restock and sale
// write to the ledger. Editing stock directly here desynchronizes the
// cached quantity from the ledger (see DESIGN.md).
func (s *Service) UpdateProduct(p data.Product) error {
	if err := s.products.Update(p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	logger.LogInfo("Updated product %d (%s)", p.ID, p.Name)
	return nil
}

// Restock adds quantity units to the product and records a Purchase entry.
func (s *Service) Restock(productID int64, quantity int) (*data.Product, error) {
	if quantity <= 0 {
		return nil, ledger.ErrInvalidQuantity
	}

	var updated *data.Product
	err := data.WithTx(func(tx *sql.Tx) error {
		products := s.products.WithTx(tx)

		p, err := products.GetByID(productID)
		if err != nil {
			return err
		}

		p.StockQty += quantity
		if err := products.UpdateStockQty(p.ID, p.StockQty); err != nil {
			return err
		}

		if _, err := s.ledger.WithTx(tx).Append(p.ID, ledger.TypePurchase, quantity, "Stock Restock", time.Now().UTC()); err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to restock product %d: %w", productID, err)
	}

	logger.LogInfo("Restocked product %d by %d units (now %d)", productID, quantity, updated.StockQty)
	return updated, nil
}

// PlaceOrder creates an order, decrements the product's stock and records a
// Sale entry, all in one transaction. An order for more units than are in
// stock is rejected before anything is written.
func (s *Service) PlaceOrder(productID int64, quantity int, customerName, status string) (*data.Order, error) {
	if quantity <= 0 {
		return nil, ledger.ErrInvalidQuantity
	}
	if status == "" {
		status = defaultOrderStatus
	}

	now := time.Now().UTC()
	order := data.Order{
		ProductID:    productID,
		Quantity:     quantity,
		CustomerName: customerName,
		Status:       status,
		Date:         now,
	}

	err := data.WithTx(func(tx *sql.Tx) error {
		products := s.products.WithTx(tx)

		p, err := products.GetByID(productID)
		if err != nil {
			return err
		}

		if p.StockQty < quantity {
			return ErrInsufficientStock
		}

		orderID, err := s.orders.WithTx(tx).Insert(order)
		if err != nil {
			return err
		}
		order.ID = orderID

		if err := products.UpdateStockQty(p.ID, p.StockQty-quantity); err != nil {
			return err
		}

		relatedTo := fmt.Sprintf("Order #%s", customerName)
		if _, err := s.ledger.WithTx(tx).Append(p.ID, ledger.TypeSale, quantity, relatedTo, now); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, data.ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to place order for product %d: %w", productID, err)
	}

	logger.LogInfo("Placed order %d: %d x product %d for %s", order.ID, quantity, productID, customerName)
	return &order, nil
}

// UpdateOrderStatus edits only the order's status field. It never adjusts
// stock or appends ledger entries — cancelling an order does not restock.
// Kept that way on purpose; see DESIGN.md.
func (s *Service) UpdateOrderStatus(orderID int64, status string) error {
	if err := s.orders.UpdateStatus(orderID, status); err != nil {
		return err
	}

	logger.LogInfo("Order %d status changed to %s", orderID, status)
	return nil
}

// DeleteProduct removes the product row only. Its orders and ledger history
// stay behind unreconciled.
func (s *Service) DeleteProduct(id int64) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}

	logger.LogInfo("Deleted product %d", id)
	return nil
}

// DeleteOrder removes the order row only. Stock and the ledger are not
// compensated.
func (s *Service) DeleteOrder(id int64) error {
	if err := s.orders.Delete(id); err != nil {
		return err
	}

	logger.LogInfo("Deleted order %d", id)
	return nil
}

// Read-only accessors for the presentation boundary.

func (s *Service) GetProduct(id int64) (*data.Product, error) {
	return s.products.GetByID(id)
}

func (s *Service) ListProducts() ([]data.Product, error) {
	return s.products.GetAll()
}

func (s *Service) GetOrder(id int64) (*data.Order, error) {
	return s.orders.GetByID(id)
}

func (s *Service) ListOrders() ([]data.Order, error) {
	return s.orders.GetAll()
}
