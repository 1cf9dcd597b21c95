package data

import (
	"database/sql"
	"fmt"
)

// =============================================================================
// ORDER REPOSITORY
// =============================================================================

type OrderRepository struct {
	dbtx DBTX
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{dbtx: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *OrderRepository) WithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{dbtx: tx}
}

func (r *OrderRepository) Insert(o Order) (int64, error) {
	const stmt = `
		INSERT INTO orders (product_id, quantity, customer_name, status, order_date)
		VALUES (?, ?, ?, ?, ?)`

	result, err := ExecDB(r.dbtx, stmt,
		o.ProductID, o.Quantity, o.CustomerName, o.Status, formatTime(o.Date))
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read order id: %w", err)
	}

	return id, nil
}

// UpdateStatus changes only the status field of an order. Stock and the
// ledger are untouched no matter what the new status is.
func (r *OrderRepository) UpdateStatus(id int64, status string) error {
	const stmt = `UPDATE orders SET status = ? WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *OrderRepository) GetByID(id int64) (*Order, error) {
	const stmt = `
		SELECT id, product_id, quantity, customer_name, status, order_date
		FROM orders WHERE id = ?`

	row := QueryRowDB(r.dbtx, stmt, id)
	return scanOrderRow(row)
}

func (r *OrderRepository) GetAll() ([]Order, error) {
	const stmt = `
		SELECT id, product_id, quantity, customer_name, status, order_date
		FROM orders ORDER BY order_date DESC, id DESC`

	rows, err := QueryDB(r.dbtx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var o Order
		var orderDate string
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.CustomerName, &o.Status, &orderDate); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		parsed, err := parseTime(orderDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse order date: %w", err)
		}
		o.Date = parsed
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return result, nil
}

func (r *OrderRepository) Delete(id int64) error {
	const stmt = `DELETE FROM orders WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanOrderRow(row *sql.Row) (*Order, error) {
	var o Order
	var orderDate string

	err := row.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.CustomerName, &o.Status, &orderDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	parsed, err := parseTime(orderDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order date: %w", err)
	}
	o.Date = parsed

	return &o, nil
}
