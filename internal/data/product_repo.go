package data

import (
	"database/sql"
	"fmt"
)

// =============================================================================
// PRODUCT REPOSITORY
// =============================================================================

type ProductRepository struct {
	dbtx DBTX
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{dbtx: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *ProductRepository) WithTx(tx *sql.Tx) *ProductRepository {
	return &ProductRepository{dbtx: tx}
}

// Insert adds a new product and returns the store-assigned id.
func (r *ProductRepository) Insert(p Product) (int64, error) {
	const stmt = `
		INSERT INTO products (name, category, unit_price, stock_qty, description, supplier, location)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := ExecDB(r.dbtx, stmt,
		p.Name, p.Category, p.UnitPrice, p.StockQty, p.Description, p.Supplier, p.Location)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read product id: %w", err)
	}

	return id, nil
}

// Update overwrites the product row with the given id.
func (r *ProductRepository) Update(p Product) error {
	const stmt = `
		UPDATE products
		SET name = ?, category = ?, unit_price = ?, stock_qty = ?, description = ?, supplier = ?, location = ?
		WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt,
		p.Name, p.Category, p.UnitPrice, p.StockQty, p.Description, p.Supplier, p.Location, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
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

// UpdateStockQty sets only the cached stock quantity.
func (r *ProductRepository) UpdateStockQty(id int64, stockQty int) error {
	const stmt = `UPDATE products SET stock_qty = ? WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, stockQty, id)
	if err != nil {
		return fmt.Errorf("failed to update stock quantity: %w", err)
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

func (r *ProductRepository) GetByID(id int64) (*Product, error) {
	const stmt = `
		SELECT id, name, category, unit_price, stock_qty, description, supplier, location
		FROM products WHERE id = ?`

	var p Product
	err := QueryRowDB(r.dbtx, stmt, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.StockQty, &p.Description, &p.Supplier, &p.Location)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return &p, nil
}

func (r *ProductRepository) GetAll() ([]Product, error) {
	const stmt = `
		SELECT id, name, category, unit_price, stock_qty, description, supplier, location
		FROM products ORDER BY id`

	rows, err := QueryDB(r.dbtx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.StockQty,
			&p.Description, &p.Supplier, &p.Location); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return result, nil
}

// Delete removes the product row. No cascade: orders and ledger entries that
// reference the product stay behind.
func (r *ProductRepository) Delete(id int64) error {
	const stmt = `DELETE FROM products WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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
