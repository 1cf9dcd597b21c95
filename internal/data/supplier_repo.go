package data

import (
	"database/sql"
	"fmt"
)

// =============================================================================
// SUPPLIER REPOSITORY
// =============================================================================

type SupplierRepository struct {
	dbtx DBTX
}

func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{dbtx: db}
}

func (r *SupplierRepository) Insert(s Supplier) (int64, error) {
	const stmt = `INSERT INTO suppliers (name, contact) VALUES (?, ?)`

	result, err := ExecDB(r.dbtx, stmt, s.Name, s.Contact)
	if err != nil {
		return 0, fmt.Errorf("failed to insert supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read supplier id: %w", err)
	}

	return id, nil
}

// Update renames/re-contacts a supplier. Products keep whatever supplier
// name they were saved with; there is no rename cascade.
func (r *SupplierRepository) Update(s Supplier) error {
	const stmt = `UPDATE suppliers SET name = ?, contact = ? WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, s.Name, s.Contact, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
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

func (r *SupplierRepository) GetByID(id int64) (*Supplier, error) {
	const stmt = `SELECT id, name, contact FROM suppliers WHERE id = ?`

	var s Supplier
	err := QueryRowDB(r.dbtx, stmt, id).Scan(&s.ID, &s.Name, &s.Contact)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan supplier: %w", err)
	}

	return &s, nil
}

func (r *SupplierRepository) GetAll() ([]Supplier, error) {
	const stmt = `SELECT id, name, contact FROM suppliers ORDER BY id`

	rows, err := QueryDB(r.dbtx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var result []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}

	return result, nil
}

func (r *SupplierRepository) Delete(id int64) error {
	const stmt = `DELETE FROM suppliers WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
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
