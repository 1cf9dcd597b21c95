package data

import (
	"database/sql"
	"fmt"
)

// =============================================================================
// STOCK TRANSACTION REPOSITORY (append-only ledger storage)
// =============================================================================

// TransactionRepository stores the stock ledger. There is deliberately no
// Update or Delete method: entries are immutable once written, and pruning
// them would desynchronize every cached stock quantity derived from them.

type TransactionRepository struct {
	dbtx DBTX
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{dbtx: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{dbtx: tx}
}

// Insert appends a ledger row and returns its store-assigned id. Ids are
// strictly increasing, so insertion order is recoverable.
func (r *TransactionRepository) Insert(t StockTransaction) (int64, error) {
	const stmt = `
		INSERT INTO transactions (product_id, type, quantity, related_to, tx_date)
		VALUES (?, ?, ?, ?, ?)`

	result, err := ExecDB(r.dbtx, stmt,
		t.ProductID, t.Type, t.Quantity, t.RelatedTo, formatTime(t.Date))
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}

	return id, nil
}

// GetByProduct returns the product's ledger entries oldest first. Entries
// with the same timestamp keep insertion order via the id tie-break.
func (r *TransactionRepository) GetByProduct(productID int64) ([]StockTransaction, error) {
	const stmt = `
		SELECT id, product_id, type, quantity, related_to, tx_date
		FROM transactions
		WHERE product_id = ?
		ORDER BY tx_date, id`

	rows, err := QueryDB(r.dbtx, stmt, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

func (r *TransactionRepository) GetAll() ([]StockTransaction, error) {
	const stmt = `
		SELECT id, product_id, type, quantity, related_to, tx_date
		FROM transactions
		ORDER BY tx_date DESC, id DESC`

	rows, err := QueryDB(r.dbtx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

func scanTransactionRows(rows *sql.Rows) ([]StockTransaction, error) {
	var result []StockTransaction
	for rows.Next() {
		var t StockTransaction
		var txDate string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.RelatedTo, &txDate); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		parsed, err := parseTime(txDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		t.Date = parsed
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return result, nil
}
