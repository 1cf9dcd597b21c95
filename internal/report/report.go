// internal/report/report.go
package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"pharmabackend/internal/config"
	"pharmabackend/internal/data"
	"pharmabackend/internal/ledger"
	"pharmabackend/internal/logger"
)

// Read-only views over the product, order and ledger collections. Nothing in
// this package mutates state; analytics reads that fail degrade to empty
// results with a logged warning instead of failing the whole view.

type Summary struct {
	TotalProducts   int     `json:"totalProducts"`
	LowStockCount   int     `json:"lowStockCount"`
	SupplierCount   int     `json:"supplierCount"`
	TodayOrderCount int     `json:"todayOrderCount"`
	InventoryValue  float64 `json:"inventoryValue"`
}

// ProductInsight bundles everything the deep-dive view shows for one
// product: current state, reconstructed trend and entry mix.
type ProductInsight struct {
	Product data.Product        `json:"product"`
	Trend   []ledger.TrendPoint `json:"trend"`
	Mix     ledger.Mix          `json:"mix"`
}

type TransactionFilter struct {
	ProductName string
	Type        string
	From        time.Time
	To          time.Time
}

type OrderFilter struct {
	CustomerName string
	Status       string
	From         time.Time
	To           time.Time
}

// TransactionRecord is a ledger entry joined with its product name for
// display. Entries whose product was deleted show up as Unknown Product.
type TransactionRecord struct {
	data.StockTransaction
	ProductName string `json:"productName"`
}

// OrderRecord is an order joined with its product name.
type OrderRecord struct {
	data.Order
	ProductName string `json:"productName"`
}

const unknownProduct = "Unknown Product"

// Dashboard computes the landing-page counters. Each collection read
// degrades independently so one failing count doesn't blank the page.
func Dashboard() Summary {
	var summary Summary

	products, err := data.NewProductRepository().GetAll()
	if err != nil {
		logger.LogWarn("Dashboard product count degraded to empty: %v", err)
	} else {
		summary.TotalProducts = len(products)
		for _, p := range products {
			if p.StockQty < config.LowStockThreshold {
				summary.LowStockCount++
			}
			summary.InventoryValue += p.UnitPrice * float64(p.StockQty)
		}
	}

	suppliers, err := data.NewSupplierRepository().GetAll()
	if err != nil {
		logger.LogWarn("Dashboard supplier count degraded to empty: %v", err)
	} else {
		summary.SupplierCount = len(suppliers)
	}

	orders, err := data.NewOrderRepository().GetAll()
	if err != nil {
		logger.LogWarn("Dashboard order count degraded to empty: %v", err)
	} else {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		for _, o := range orders {
			if o.Date.UTC().Truncate(24 * time.Hour).Equal(today) {
				summary.TodayOrderCount++
			}
		}
	}

	logger.LogInfo("Dashboard summary: %s products, inventory value $%s",
		humanize.Comma(int64(summary.TotalProducts)),
		humanize.CommafWithDigits(summary.InventoryValue, 2))

	return summary
}

// Insight loads a product together with its reconstructed stock trend and
// transaction mix in one read transaction, so the cached quantity and the
// trend beneath it come from the same snapshot.
func Insight(productID int64) (*ProductInsight, error) {
	var insight ProductInsight

	err := data.ReadTx(func(tx *sql.Tx) error {
		product, err := data.NewProductRepository().WithTx(tx).GetByID(productID)
		if err != nil {
			return err
		}
		insight.Product = *product

		entries, err := data.NewTransactionRepository().WithTx(tx).GetByProduct(productID)
		if err != nil {
			return err
		}

		trend, err := ledger.Replay(entries)
		if err != nil {
			return err
		}
		insight.Trend = trend

		mix, err := ledger.Tally(entries)
		if err != nil {
			return err
		}
		insight.Mix = mix

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &insight, nil
}

// FilteredTransactions returns ledger entries joined with product names,
// newest first, narrowed by the filter.
func FilteredTransactions(filter TransactionFilter) ([]TransactionRecord, error) {
	entries, err := data.NewTransactionRepository().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	names := productNames()
	nameFilter := strings.ToLower(filter.ProductName)

	result := make([]TransactionRecord, 0, len(entries))
	for _, entry := range entries {
		productName, ok := names[entry.ProductID]
		if !ok {
			productName = unknownProduct
		}

		if nameFilter != "" && !strings.Contains(strings.ToLower(productName), nameFilter) {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if !inDateRange(entry.Date, filter.From, filter.To) {
			continue
		}

		result = append(result, TransactionRecord{StockTransaction: entry, ProductName: productName})
	}

	return result, nil
}

// FilteredOrders returns orders joined with product names, newest first,
// narrowed by the filter.
func FilteredOrders(filter OrderFilter) ([]OrderRecord, error) {
	orders, err := data.NewOrderRepository().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	names := productNames()
	nameFilter := strings.ToLower(filter.CustomerName)

	result := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		if nameFilter != "" && !strings.Contains(strings.ToLower(o.CustomerName), nameFilter) {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(o.Status, filter.Status) {
			continue
		}
		if !inDateRange(o.Date, filter.From, filter.To) {
			continue
		}

		productName, ok := names[o.ProductID]
		if !ok {
			productName = unknownProduct
		}
		result = append(result, OrderRecord{Order: o, ProductName: productName})
	}

	return result, nil
}

// productNames maps product ids to names for joining. Degrades to an empty
// map when the read fails; every row then shows Unknown Product.
func productNames() map[int64]string {
	products, err := data.NewProductRepository().GetAll()
	if err != nil {
		logger.LogWarn("Product name lookup degraded to empty: %v", err)
		return map[int64]string{}
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

// inDateRange checks a timestamp against day-granular bounds, matching the
// front-end's date pickers.
func inDateRange(t, from, to time.Time) bool {
	day := t.UTC().Truncate(24 * time.Hour)
	if !from.IsZero() && day.Before(from.UTC().Truncate(24*time.Hour)) {
		return false
	}
	if !to.IsZero() && day.After(to.UTC().Truncate(24*time.Hour)) {
		return false
	}
	return true
}
