// internal/alert/alert.go
package alert

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"pharmabackend/internal/data"
	"pharmabackend/internal/logger"
)

const (
	defaultAlertRecipient = "pharmacy-admin@yourdomain.org"
	defaultAlertSender    = "alerts@yourdomain.org"
)

// Config holds email alert configuration
type Config struct {
	AlertRecipient string
	AlertSender    string
	SendAlerts     bool
	MockMode       bool
	LogEmails      bool
}

// LoadConfig loads alert configuration from environment variables
func LoadConfig() Config {
	return Config{
		AlertRecipient: getEnvOrDefault("EMAIL_ALERT_RECIPIENT", defaultAlertRecipient),
		AlertSender:    getEnvOrDefault("EMAIL_ALERT_SENDER", defaultAlertSender),
		SendAlerts:     getEnvOrDefault("SEND_ALERT_EMAILS", "true") == "true",
		MockMode:       getEnvOrDefault("EMAIL_MOCK_MODE", "false") == "true",
		LogEmails:      getEnvOrDefault("EMAIL_LOG_MODE", "true") == "true",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// LowStockData holds everything the nightly stock report email shows.
type LowStockData struct {
	Threshold      int
	LowStock       []data.Product
	Desynchronized []string
}

var lowStockTemplate = `Subject: Stock Report - {{len .LowStock}} product(s) below threshold

The nightly stock check found the following:

{{if .LowStock}}**Low stock (below {{.Threshold}} units):**
{{range .LowStock}}  - {{.Name}}: {{.StockQty}} units ({{.Location}})
{{end}}{{else}}No products below the {{.Threshold}}-unit threshold.
{{end}}
{{if .Desynchronized}}**Stock desynchronized from ledger:**
{{range .Desynchronized}}  - {{.}}
{{end}}
These products had their stock edited outside the inventory operations.
{{end}}`

// SendLowStockAlert emails the nightly stock report to administrators.
func SendLowStockAlert(config Config, report LowStockData) error {
	if !config.SendAlerts {
		logger.LogInfo("Alert emails disabled, skipping stock report")
		return nil
	}

	tmpl, err := template.New("lowStock").Parse(lowStockTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse stock report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return fmt.Errorf("failed to execute stock report template: %w", err)
	}

	content := buf.String()
	lines := strings.Split(content, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "Subject: ") {
		return fmt.Errorf("invalid template format: missing subject line")
	}

	subject := strings.TrimPrefix(lines[0], "Subject: ")
	body := strings.Join(lines[2:], "\n")

	if err := SendMail(config, config.AlertRecipient, config.AlertSender, subject, body); err != nil {
		logger.LogError("Failed to send stock report to %s: %v", config.AlertRecipient, err)
		return fmt.Errorf("failed to send stock report: %w", err)
	}

	logger.LogInfo("Stock report sent to %s", config.AlertRecipient)
	return nil
}

// SendMail sends an email using sendmail or logs it in mock mode
func SendMail(config Config, to, from, subject, body string) error {
	// Mock mode - just log to console with nice formatting
	if config.MockMode {
		logger.LogInfo("========== MOCK EMAIL ==========")
		logger.LogInfo("To: %s", to)
		logger.LogInfo("From: %s", from)
		logger.LogInfo("Subject: %s", subject)
		logger.LogInfo("---")
		for _, line := range strings.Split(body, "\n") {
			logger.LogInfo("   %s", line)
		}
		logger.LogInfo("================================")
		return nil
	}

	if config.LogEmails {
		logger.LogInfo("Sending email to %s with subject: %s", to, subject)
	}

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
	}

	message := strings.Join(headers, "\r\n") + body
	cmd := exec.Command("/usr/sbin/sendmail", "-t")
	cmd.Stdin = bytes.NewBufferString(message)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sendmail command failed: %w", err)
	}

	if config.LogEmails {
		logger.LogInfo("Email sent successfully to %s", to)
	}

	return nil
}
