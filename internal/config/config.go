// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pharmabackend/internal/logger"
)

// Variables available everywhere
var (
	baseDir       string
	dataDirectory string
	logsDirectory string
	databasePath  string

	LogFileFormat string
	AllowedOrigin string // For CORS

	// Seed admin provisioning (replaces any hardcoded credential fallback)
	SeedAdminUsername string
	SeedAdminPassword string
	SeedAdminRole     string

	// Optional demo dataset on first run
	SeedSampleData bool

	// Dashboard threshold for flagging a product as low on stock
	LowStockThreshold = 30
)

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod)
func GetEnvBasedSetting(base string) string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	return os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(env)))
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	if env == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	} else {
		log.Printf("Current working directory: %s", wd)
	}

	err = godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := GetEnvBasedSetting("LOGS_DIRECTORY")
	if logDir == "" {
		logDir = "./logs"
	}

	logFormat := GetEnvBasedSetting("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = "pharmacy_%s.log"
	}

	timezone := os.Getenv("TIME_ZONE")
	if timezone == "" {
		timezone = "Local"
	}

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
	}
}

// ConfigurePaths sets up folders and paths
func ConfigurePaths() {
	wd, err := os.Getwd()
	if err != nil {
		logger.LogFatal("Failed to get working directory: %v", err)
	}
	baseDir = wd

	env := os.Getenv("APP_ENV")
	if env == "production" {
		AllowedOrigin = os.Getenv("ALLOWED_ORIGIN_PROD")
	} else {
		AllowedOrigin = os.Getenv("ALLOWED_ORIGIN_DEV")
	}

	dataDir := GetEnvBasedSetting("DATA_DIRECTORY")
	if dataDir != "" {
		dataDirectory = dataDir
	} else {
		dataDirectory = filepath.Join(baseDir, "data")
	}

	logsDir := GetEnvBasedSetting("LOGS_DIRECTORY")
	if logsDir != "" {
		logsDirectory = logsDir
	} else {
		logsDirectory = filepath.Join(baseDir, "logs")
	}

	dbPath := GetEnvBasedSetting("DATABASE_PATH")
	if dbPath != "" {
		databasePath = dbPath
	} else {
		databasePath = filepath.Join(dataDirectory, "pharmacy.db")
	}

	if threshold := os.Getenv("LOW_STOCK_THRESHOLD"); threshold != "" {
		n, err := strconv.Atoi(threshold)
		if err != nil || n < 0 {
			logger.LogWarn("Invalid LOW_STOCK_THRESHOLD: %s, keeping default %d", threshold, LowStockThreshold)
		} else {
			LowStockThreshold = n
		}
	}

	LogFileFormat = filepath.Join(logsDirectory, "pharmacy_%s.log")
}

// LoadSeedConfig loads admin provisioning and demo data settings.
// The admin account is seeded into the users table on first run; there is
// no built-in credential fallback at login time.
func LoadSeedConfig() error {
	SeedAdminUsername = os.Getenv("SEED_ADMIN_USERNAME")
	SeedAdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
	SeedAdminRole = os.Getenv("SEED_ADMIN_ROLE")
	if SeedAdminRole == "" {
		SeedAdminRole = "Super Admin"
	}

	if SeedAdminUsername == "" || SeedAdminPassword == "" {
		return fmt.Errorf("seed admin credentials are missing or incomplete")
	}

	SeedSampleData = os.Getenv("SEED_SAMPLE_DATA") == "true"
	if SeedSampleData {
		logger.LogInfo("Sample dataset seeding enabled")
	}

	return nil
}

// LoadCORSConfig loads CORS settings
func LoadCORSConfig() {
	AllowedOrigin = GetEnvBasedSetting("ALLOWED_ORIGIN")
	if AllowedOrigin == "" {
		AllowedOrigin = "*" // Allow all - be careful in prod
		logger.LogWarn("ALLOWED_ORIGIN not set, using '*' (allow all origins) - SECURITY RISK")
	} else {
		logger.LogInfo("Allowed Origin: %s", AllowedOrigin)
	}
}

//
// --- Getters (exported) ---
//

func DataDirectory() string {
	return dataDirectory
}

func LogsDirectory() string {
	return logsDirectory
}

func DatabasePath() string {
	return databasePath
}
