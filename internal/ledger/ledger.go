// internal/ledger/ledger.go
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmabackend/internal/data"
)

// The ledger is the append-only history of every stock-affecting event. A
// product's cached stock quantity must always equal the fold of its entries;
// the only writers that keep that true are the inventory operations.

type EntryType string

const (
	TypeInitial  EntryType = "Initial"
	TypePurchase EntryType = "Purchase"
	TypeSale     EntryType = "Sale"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownType     = errors.New("unknown transaction type")
)

// TrendPoint is one step of a product's reconstructed stock history.
type TrendPoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// Mix tallies a product's ledger entries per type.
type Mix struct {
	Initial   int `json:"initial"`
	Purchases int `json:"purchases"`
	Sales     int `json:"sales"`
}

func (m Mix) Total() int {
	return m.Initial + m.Purchases + m.Sales
}

// signedQuantity applies the entry's direction: Initial and Purchase add
// stock, Sale removes it.
func signedQuantity(t EntryType, quantity int) (int, error) {
	switch t {
	case TypeInitial, TypePurchase:
		return quantity, nil
	case TypeSale:
		return -quantity, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

// Replay folds entries (oldest first) into the running stock level, starting
// from a zero baseline. Pure and read-only: replaying the same entries
// always yields the same sequence.
func Replay(entries []data.StockTransaction) ([]TrendPoint, error) {
	trend := make([]TrendPoint, 0, len(entries))
	current := 0

	for _, entry := range entries {
		delta, err := signedQuantity(EntryType(entry.Type), entry.Quantity)
		if err != nil {
			return nil, err
		}
		current += delta
		trend = append(trend, TrendPoint{Date: entry.Date, Quantity: current})
	}

	return trend, nil
}

// FinalLevel returns the stock level after replaying all entries.
func FinalLevel(entries []data.StockTransaction) (int, error) {
	trend, err := Replay(entries)
	if err != nil {
		return 0, err
	}
	if len(trend) == 0 {
		return 0, nil
	}
	return trend[len(trend)-1].Quantity, nil
}

// Tally counts entries per type.
func Tally(entries []data.StockTransaction) (Mix, error) {
	var mix Mix
	for _, entry := range entries {
		switch EntryType(entry.Type) {
		case TypeInitial:
			mix.Initial++
		case TypePurchase:
			mix.Purchases++
		case TypeSale:
			mix.Sales++
		default:
			return Mix{}, fmt.Errorf("%w: %s", ErrUnknownType, entry.Type)
		}
	}
	return mix, nil
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	transactions *data.TransactionRepository
}

func NewService() *Service {
	return &Service{transactions: data.NewTransactionRepository()}
}

// WithTx returns a service whose append goes through an open transaction,
// so inventory operations can pair it with their product write.
func (s *Service) WithTx(tx *sql.Tx) *Service {
	return &Service{transactions: s.transactions.WithTx(tx)}
}

// Append validates and writes one ledger entry, returning it with its
// store-assigned id. Existing entries are never touched.
func (s *Service) Append(productID int64, entryType EntryType, quantity int, relatedTo string, date time.Time) (*data.StockTransaction, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := signedQuantity(entryType, quantity); err != nil {
		return nil, err
	}

	entry := data.StockTransaction{
		ProductID: productID,
		Type:      string(entryType),
		Quantity:  quantity,
		RelatedTo: relatedTo,
		Date:      date,
	}

	id, err := s.transactions.Insert(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	entry.ID = id

	return &entry, nil
}

// StockTrend reconstructs the product's stock history by replaying its
// ledger entries in date order.
func (s *Service) StockTrend(productID int64) ([]TrendPoint, error) {
	entries, err := s.transactions.GetByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return Replay(entries)
}

// TransactionMix tallies the product's ledger entries per type.
func (s *Service) TransactionMix(productID int64) (Mix, error) {
	entries, err := s.transactions.GetByProduct(productID)
	if err != nil {
		return Mix{}, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return Tally(entries)
}

// VerifyProduct checks the product's cached quantity against the replayed
// ledger. A mismatch means something wrote stock outside the inventory
// operations.
func (s *Service) VerifyProduct(p data.Product) error {
	entries, err := s.transactions.GetByProduct(p.ID)
	if err != nil {
		return fmt.Errorf("failed to load ledger entries: %w", err)
	}

	level, err := FinalLevel(entries)
	if err != nil {
		return err
	}

	if level != p.StockQty {
		return fmt.Errorf("product %d stock desynchronized: cached %d, ledger %d", p.ID, p.StockQty, level)
	}

	return nil
}
