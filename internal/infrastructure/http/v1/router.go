// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/quote"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1/handlers"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1/middleware"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
	"github.com/AzizBrinis/invoice-app-sub003/pkg/logger"
)

// RouterConfig holds the wired services the API exposes.
type RouterConfig struct {
	// Pool is the database connection (health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// InvoiceService handles invoice operations
	InvoiceService *invoice.Service

	// QuoteService handles quote operations
	QuoteService *quote.Service

	// SettingsRepo stores owner billing settings
	SettingsRepo settings.Repository

	// AuditRepo reads document audit trails
	AuditRepo audit.Repository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no owner context required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	invoiceHandler := handlers.NewInvoiceHandler(baseHandler, cfg.InvoiceService, cfg.AuditRepo)
	quoteHandler := handlers.NewQuoteHandler(baseHandler, cfg.QuoteService, cfg.AuditRepo)
	settingsHandler := handlers.NewSettingsHandler(baseHandler, cfg.SettingsRepo)

	// API v1
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.UserContext())
	{
		invoices := apiV1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/send", invoiceHandler.Send)
			invoices.POST("/:id/payments", invoiceHandler.RegisterPayment)
			invoices.GET("/:id/audit", invoiceHandler.AuditTrail)
		}

		quotes := apiV1.Group("/quotes")
		{
			quotes.POST("", quoteHandler.Create)
			quotes.GET("", quoteHandler.List)
			quotes.GET("/:id", quoteHandler.Get)
			quotes.PUT("/:id", quoteHandler.Update)
			quotes.DELETE("/:id", quoteHandler.Delete)
			quotes.POST("/:id/send", quoteHandler.Send)
			quotes.POST("/:id/convert", quoteHandler.Convert)
			quotes.GET("/:id/audit", quoteHandler.AuditTrail)
		}

		apiV1.GET("/settings", settingsHandler.Get)
		apiV1.PUT("/settings", settingsHandler.Save)
	}

	return router
}
