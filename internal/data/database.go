package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"pharmabackend/internal/logger"
)

// =============================================================================
// CONSTANTS AND GLOBAL VARIABLES
// =============================================================================

// Global database instance with better management
var (
	db   *sql.DB
	dbMu sync.RWMutex
)

// Database connection pool configuration
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = time.Minute * 15
	queryTimeout    = time.Second * 30
)

const TimeFormat = time.RFC3339

// ErrNotFound is returned when a record with the requested id does not exist
// in its collection.
var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx so repository methods can run
// standalone or inside a multi-collection transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// =============================================================================
// DATABASE CONNECTION AND SETUP
// =============================================================================

// InitDB initializes the database with connection pooling and resilience
func InitDB(dataSourceName string) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	// Close existing connection if any
	if db != nil {
		db.Close()
	}

	return initDBWithRetry(dataSourceName, 3)
}

func initDBWithRetry(dataSourceName string, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = sql.Open("sqlite", dataSourceName)
		if err != nil {
			logger.LogWarn("Database connection attempt %d failed: %v", attempt, err)
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			return fmt.Errorf("failed to open database after %d attempts: %w", maxRetries, err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
		db.SetConnMaxIdleTime(connMaxIdleTime)

		// Test the connection
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.LogWarn("Database ping attempt %d failed: %v", attempt, err)
			db.Close()
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			return fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		// Enable optimizations with error handling
		if err := enablePragmas(db); err != nil {
			logger.LogWarn("Failed to enable some database optimizations: %v", err)
			// Don't fail initialization for pragma errors
		}

		logger.LogInfo("Database connection established successfully (attempt %d)", attempt)
		return nil
	}

	return fmt.Errorf("failed to initialize database after %d attempts", maxRetries)
}

func enablePragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}

	var lastErr error
	for _, pragma := range pragmas {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		_, err := conn.ExecContext(ctx, pragma)
		cancel()

		if err != nil {
			logger.LogWarn("Failed to execute %s: %v", pragma, err)
			lastErr = err
		}
	}
	return lastErr
}

// GetDB returns the database connection
func GetDB() (*sql.DB, error) {
	dbMu.RLock()
	defer dbMu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	return db, nil
}

// CloseDB closes the database connection gracefully
func CloseDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// =============================================================================
// SCHEMA DEFINITIONS
// =============================================================================

// Five collections, all keyed by an auto-assigned integer id. Products keep a
// denormalized supplier name rather than a foreign key, so supplier renames
// and deletes do not cascade.

const usersTableSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'Admin'
	);`

const productsTableSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		unit_price REAL NOT NULL DEFAULT 0,
		stock_qty INTEGER NOT NULL DEFAULT 0,
		description TEXT DEFAULT '',
		supplier TEXT DEFAULT '',
		location TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`

const suppliersTableSchema = `
	CREATE TABLE IF NOT EXISTS suppliers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		contact TEXT DEFAULT ''
	);`

const ordersTableSchema = `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		customer_name TEXT DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		order_date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id);
	CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);`

const transactionsTableSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		related_to TEXT DEFAULT '',
		tx_date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_product ON transactions(product_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(tx_date);`

// =============================================================================
// TABLE CREATION
// =============================================================================

func CreateTables() error {
	tables := []struct {
		name   string
		schema string
	}{
		{"users", usersTableSchema},
		{"products", productsTableSchema},
		{"suppliers", suppliersTableSchema},
		{"orders", ordersTableSchema},
		{"transactions", transactionsTableSchema},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.schema); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	return nil
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

func parseTime(timeStr string) (time.Time, error) {
	return time.Parse(TimeFormat, timeStr)
}

// =============================================================================
// GENERIC DATABASE OPERATIONS
// =============================================================================

// ExecDB executes a statement with error handling and timeouts
func ExecDB(dbtx DBTX, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	result, err := dbtx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.LogError("Database exec failed: query=%s, error=%v", query, err)
		return nil, fmt.Errorf("database execution failed: %w", err)
	}

	return result, nil
}

// QueryDB executes a query and returns rows. No timeout context here: the
// rows are read by the caller, and cancelling before that closes them.
func QueryDB(dbtx DBTX, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := dbtx.QueryContext(context.Background(), query, args...)
	if err != nil {
		logger.LogError("Database query failed: query=%s, error=%v", query, err)
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return rows, nil
}

// QueryRowDB executes a query that returns a single row.
func QueryRowDB(dbtx DBTX, query string, args ...interface{}) *sql.Row {
	return dbtx.QueryRowContext(context.Background(), query, args...)
}

// WithTx runs fn inside a single transaction. Inventory operations use this
// so the product row update and its ledger entry commit or roll back as one
// unit; a failure mid-operation never leaves the cached stock quantity and
// the transaction log disagreeing.
func WithTx(fn func(tx *sql.Tx) error) error {
	dbConn, err := GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := dbConn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.LogError("Transaction rollback failed: %v (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReadTx runs fn inside a transaction that is always rolled back, giving
// reporting reads a consistent snapshot of product and ledger state without
// ever writing.
func ReadTx(fn func(tx *sql.Tx) error) error {
	dbConn, err := GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := dbConn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(tx)
}
