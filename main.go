// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"pharmabackend/internal/audit"
	"pharmabackend/internal/config"
	"pharmabackend/internal/data"
	"pharmabackend/internal/inventory"
	"pharmabackend/internal/logger"
	"pharmabackend/internal/middleware"
	"pharmabackend/internal/report"
	"pharmabackend/internal/security"
	"pharmabackend/internal/supplier"
)

type App struct {
	addr          string
	mux           *http.ServeMux
	connections   sync.WaitGroup
	totalRequests int64
}

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	config.ConfigurePaths()

	// Step 2: Setup logging
	loggerConfig := config.LoggerConfig()
	if err := logger.SetupLogger(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	logger.LogInfo("Environment and paths loaded. Logger ready.")

	// Step 3: Load seed/admin configuration
	if err := config.LoadSeedConfig(); err != nil {
		logger.LogFatal("Failed to load seed config: %v", err)
	}
	config.LoadCORSConfig()
	config.LogCurrentEnvironment()

	// Step 4: Open the database and prepare the five collections
	if err := os.MkdirAll(config.DataDirectory(), 0775); err != nil {
		logger.LogFatal("Failed to create data directory: %v", err)
	}
	if err := data.InitDB(config.DatabasePath()); err != nil {
		logger.LogFatal("Failed to initialize database: %v", err)
	}
	if err := data.CreateTables(); err != nil {
		logger.LogFatal("Failed to create tables: %v", err)
	}

	// Step 5: Provision the admin account and optional demo catalog
	if err := security.ProvisionSeedAdmin(); err != nil {
		logger.LogFatal("Failed to provision seed admin: %v", err)
	}
	if config.SeedSampleData {
		if err := inventory.SeedSampleData(); err != nil {
			logger.LogFatal("Failed to seed sample data: %v", err)
		}
	}

	// Step 6: Setup app
	app := &App{
		addr: serverAddress(),
		mux:  routes(),
	}

	// Step 7: Start background tasks
	go security.CleanExpiredSessions()
	audit.StartAuditRoutine()

	// Step 8: Run server
	app.Run()
}

// serverAddress builds the server address from environment variables
func serverAddress() string {
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "5052"
	}
	return host + ":" + port
}

// routes sets up all API routes
func routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	public := func(method string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.PublicMiddleware(middleware.RequireMethod(method, h))
	}
	authed := func(method string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.APIMiddleware(security.ValidateSessionToken, middleware.RequireMethod(method, h))
	}

	apiMux := http.NewServeMux()

	// Auth
	apiMux.HandleFunc("/login", public(http.MethodPost, security.LoginHandler))
	apiMux.HandleFunc("/logout", authed(http.MethodPost, security.LogoutHandler))

	// Products and inventory operations
	apiMux.HandleFunc("/products", authed(http.MethodGet, inventory.ProductsHandler))
	apiMux.HandleFunc("/products/save", authed(http.MethodPost, inventory.SaveProductHandler))
	apiMux.HandleFunc("/products/restock", authed(http.MethodPost, inventory.RestockHandler))
	apiMux.HandleFunc("/products/delete", authed(http.MethodPost, inventory.DeleteProductHandler))

	// Orders
	apiMux.HandleFunc("/orders", middleware.APIMiddleware(security.ValidateSessionToken, inventory.OrdersHandler))
	apiMux.HandleFunc("/orders/status", authed(http.MethodPost, inventory.OrderStatusHandler))
	apiMux.HandleFunc("/orders/delete", authed(http.MethodPost, inventory.DeleteOrderHandler))

	// Suppliers
	apiMux.HandleFunc("/suppliers", authed(http.MethodGet, supplier.SuppliersHandler))
	apiMux.HandleFunc("/suppliers/save", authed(http.MethodPost, supplier.SaveSupplierHandler))
	apiMux.HandleFunc("/suppliers/delete", authed(http.MethodPost, supplier.DeleteSupplierHandler))

	// Admin accounts
	apiMux.HandleFunc("/admins", authed(http.MethodGet, security.AdminsHandler))
	apiMux.HandleFunc("/admins/save", authed(http.MethodPost, security.CreateAdminHandler))
	apiMux.HandleFunc("/admins/delete", authed(http.MethodPost, security.DeleteAdminHandler))

	// Reporting (read-only)
	apiMux.HandleFunc("/reports/dashboard", authed(http.MethodGet, report.DashboardHandler))
	apiMux.HandleFunc("/reports/insight", authed(http.MethodGet, report.InsightHandler))
	apiMux.HandleFunc("/reports/transactions", authed(http.MethodGet, report.TransactionsHandler))
	apiMux.HandleFunc("/reports/transactions.csv", authed(http.MethodGet, report.TransactionsCSVHandler))
	apiMux.HandleFunc("/reports/orders", authed(http.MethodGet, report.OrdersHandler))

	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	return mux
}

// Run starts the HTTP server
func (a *App) Run() {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a separate goroutine
	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	<-stop
	logger.LogInfo("Shutdown signal received")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server gracefully
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	// Wait for active connections to finish
	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()

	if err := data.CloseDB(); err != nil {
		logger.LogError("Database close error: %v", err)
	}

	logger.LogInfo("Server shut down gracefully. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
}

// Handler assembles all middleware around the main mux
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.trackConnections(handler)
	handler = security.AddCORSHeaders(handler)
	handler = withTimeout(handler, 15*time.Second)

	return handler
}

// Middleware: timeout handler
func withTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "Request timed out")
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}
