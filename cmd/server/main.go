// Package main is the entry point for the invoicing API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/lifecycle"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/quote"
	v1 "github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/numerator"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres/audit_repo"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres/document_repo"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres/settings_repo"
	"github.com/AzizBrinis/invoice-app-sub003/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting invoicing server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if minConns := getEnvInt("DB_MIN_CONNS", 0); minConns > 0 {
		poolCfg.MinConns = int32(minConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	quoteRepo := document_repo.NewQuoteRepo(txManager)
	settingsRepo := settings_repo.NewRepo(txManager)

	auditRepo, err := audit_repo.NewRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}

	// --- Services ---
	numeratorService := numerator.New(txManager)

	invoiceLifecycle := lifecycle.NewService(invoice.NewLifecycleStore(invoiceRepo), auditRepo, txManager)
	quoteLifecycle := lifecycle.NewService(quote.NewLifecycleStore(quoteRepo), auditRepo, txManager)

	invoiceService := invoice.NewService(invoiceRepo, settingsRepo, numeratorService, txManager, invoiceLifecycle)
	quoteService := quote.NewService(quoteRepo, settingsRepo, numeratorService, txManager, quoteLifecycle, invoiceService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		InvoiceService: invoiceService,
		QuoteService:   quoteService,
		SettingsRepo:   settingsRepo,
		AuditRepo:      auditRepo,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
