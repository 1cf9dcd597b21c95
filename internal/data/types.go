package data

import "time"

// Entity types for the five collections. JSON field names match what the
// front-end stores and submits.

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	UnitPrice   float64 `json:"unitPrice"`
	StockQty    int     `json:"stockQty"`
	Description string  `json:"description,omitempty"`
	Supplier    string  `json:"supplier,omitempty"` // supplier name, not an id
	Location    string  `json:"location,omitempty"`
}

type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Order struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	Quantity     int       `json:"quantity"`
	CustomerName string    `json:"customerName"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
}

// StockTransaction is one immutable row of the stock ledger. Rows are only
// ever appended; nothing in the normal flow updates or deletes them.
type StockTransaction struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Type      string    `json:"type"` // Initial, Purchase or Sale
	Quantity  int       `json:"quantity"`
	RelatedTo string    `json:"relatedTo"`
	Date      time.Time `json:"date"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // stored as-is; see DESIGN.md
	Role     string `json:"role"`
}
