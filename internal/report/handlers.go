// internal/report/handlers.go
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pharmabackend/internal/data"
	"pharmabackend/internal/logger"
	"pharmabackend/internal/middleware"
)

func writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, data.ErrNotFound) {
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Referenced record does not exist", "")
		return
	}
	logger.LogHTTPError(r, http.StatusInternalServerError, err)
	middleware.WriteAPIError(w, r, http.StatusInternalServerError, "store_error", "Storage operation failed", "")
}

func parseProductID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("product_id")
	if raw == "" {
		return 0, fmt.Errorf("product_id is required")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DashboardHandler returns the landing-page counters.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteAPISuccess(w, r, Dashboard())
}

// InsightHandler returns one product's state, stock trend and entry mix.
func InsightHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	insight, err := Insight(productID)
	if err != nil {
		writeReportError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, insight)
}

func transactionFilterFromQuery(r *http.Request) TransactionFilter {
	q := r.URL.Query()
	return TransactionFilter{
		ProductName: q.Get("name"),
		Type:        q.Get("type"),
		From:        parseDate(q.Get("from")),
		To:          parseDate(q.Get("to")),
	}
}

// TransactionsHandler returns the filtered transaction history.
func TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := FilteredTransactions(transactionFilterFromQuery(r))
	if err != nil {
		writeReportError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, records)
}

// OrdersHandler returns the filtered order history.
func OrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := OrderFilter{
		CustomerName: q.Get("name"),
		Status:       q.Get("status"),
		From:         parseDate(q.Get("from")),
		To:           parseDate(q.Get("to")),
	}

	records, err := FilteredOrders(filter)
	if err != nil {
		writeReportError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, records)
}

// TransactionsCSVHandler exports the filtered transaction history as CSV,
// the downloadable counterpart of the history view.
func TransactionsCSVHandler(w http.ResponseWriter, r *http.Request) {
	records, err := FilteredTransactions(transactionFilterFromQuery(r))
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("pharmacy_report_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Product", "Type", "Qty Change", "Related To"}); err != nil {
		logger.LogError("CSV header write failed: %v", err)
		return
	}

	for _, record := range records {
		sign := "+"
		if record.Type == "Sale" {
			sign = "-"
		}
		row := []string{
			record.Date.UTC().Format(time.RFC3339),
			record.ProductName,
			record.Type,
			fmt.Sprintf("%s%d", sign, record.Quantity),
			record.RelatedTo,
		}
		if err := writer.Write(row); err != nil {
			logger.LogError("CSV row write failed: %v", err)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.LogError("CSV flush failed: %v", err)
	}
}
