// internal/audit/audit.go
package audit

import (
	"fmt"
	"time"

	"pharmabackend/internal/alert"
	"pharmabackend/internal/config"
	"pharmabackend/internal/data"
	"pharmabackend/internal/ledger"
	"pharmabackend/internal/logger"
)

const auditHour = 2 // 2 AM

// StartAuditRoutine starts the nightly stock audit job
func StartAuditRoutine() {
	go func() {
		logger.LogInfo("Audit routine started - will run daily at %d:00 AM", auditHour)

		for {
			// Calculate next 2 AM
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), auditHour, 0, 0, 0, now.Location())

			// If it's past 2 AM today, schedule for tomorrow
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}

			sleepDuration := next.Sub(now)
			logger.LogInfo("Next audit scheduled for %v (in %v)", next.Format("2006-01-02 15:04:05"), sleepDuration)

			time.Sleep(sleepDuration)

			if err := RunAudit(); err != nil {
				logger.LogError("Nightly audit failed: %v", err)
			}
		}
	}()
}

// RunAudit sweeps every product once: flags low stock against the configured
// threshold and replays each ledger to catch cached quantities that no longer
// match their history. Findings go to the log and, when anything turns up,
// to the alert recipient.
func RunAudit() error {
	logger.LogInfo("Starting nightly stock audit")

	products, err := data.NewProductRepository().GetAll()
	if err != nil {
		return fmt.Errorf("failed to load products for audit: %w", err)
	}

	report := alert.LowStockData{Threshold: config.LowStockThreshold}
	verifier := ledger.NewService()

	for _, p := range products {
		if p.StockQty < config.LowStockThreshold {
			report.LowStock = append(report.LowStock, p)
		}

		if err := verifier.VerifyProduct(p); err != nil {
			logger.LogWarn("Audit: %v", err)
			report.Desynchronized = append(report.Desynchronized, err.Error())
		}
	}

	logger.LogInfo("Audit completed - %d products checked, %d low on stock, %d desynchronized",
		len(products), len(report.LowStock), len(report.Desynchronized))

	if len(report.LowStock) == 0 && len(report.Desynchronized) == 0 {
		return nil
	}

	return alert.SendLowStockAlert(alert.LoadConfig(), report)
}
