// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/app"
	"palletbook/internal/infrastructure/http/v1/handlers"
	"palletbook/internal/infrastructure/http/v1/middleware"
	"palletbook/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// App is the loaded application state.
	App *app.App

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator enables bearer authentication when set. Without it the
	// operator is taken from the X-User-ID header.
	JWTValidator middleware.JWTValidator

	// Storage names the persistence driver in readiness output.
	Storage string

	// Pinger backs the readiness probe; nil means always ready.
	Pinger handlers.Pinger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.Pinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	} else {
		v1.Use(middleware.UserContext())
	}

	base := handlers.NewBaseHandler()
	registerCatalogRoutes(v1, base, cfg)
	registerLedgerRoutes(v1, base, cfg)
	registerPriceRoutes(v1, base, cfg)
	registerStockRoutes(v1, base, cfg)
	registerRevenueRoutes(v1, base, cfg)
	registerReportRoutes(v1, base, cfg)
	registerAuditRoutes(v1, base, cfg)

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewCatalogHandler(base, cfg.App.Catalog)
	g := rg.Group("/catalog")
	g.GET("/contractors", h.Contractors)
	g.GET("/contractors/:contractorId/services", h.EnabledServices)
	g.GET("/warehouses", h.Warehouses)
	g.GET("/services", h.Services)
	g.GET("/pallet-types", h.PalletTypes)
}

func registerLedgerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewLedgerHandler(base, cfg.App.Ledger)
	rg.GET("/ledger", h.List)
	rg.GET("/ledger/:contractorId/:warehouseId", h.Period)
	day := rg.Group("/ledger/:contractorId/:warehouseId/:date")
	day.GET("", h.Get)
	day.PUT("", h.Save)
	day.POST("/complete", h.Complete)
	day.GET("/history", h.History)
}

func registerPriceRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewPricesHandler(base, cfg.App.Prices)
	g := rg.Group("/prices")
	g.GET("/services/:contractorId/:serviceId", h.ServiceHistory)
	g.POST("/services", h.AddService)
	g.GET("/pallets/:contractorId/:palletTypeId/:direction", h.PalletHistory)
	g.POST("/pallets", h.AddPallet)
	g.PATCH("/:id", h.Update)
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewStockHandler(base, cfg.App.Stock, cfg.App.Catalog)
	g := rg.Group("/stock/:contractorId/:warehouseId")
	g.GET("", h.Get)
	g.GET("/series", h.Series)
	g.GET("/turnover", h.Turnover)
}

func registerRevenueRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewRevenueHandler(base, cfg.App.Revenue)
	rg.GET("/revenue/:contractorId", h.Get)
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.App.Reports)
	g := rg.Group("/reports")
	g.GET("/monthly", h.Monthly)
	g.GET("/daily-series", h.DailySeries)
	g.GET("/top-revenue", h.TopRevenue)
	g.GET("/top-growth", h.TopGrowth)
	g.GET("/contractor-daily", h.ContractorDaily)
	g.GET("/overview", h.Overview)
}

func registerAuditRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewAuditHandler(base, cfg.App.Audit)
	g := rg.Group("/audit")
	g.GET("", h.List)
	g.GET("/:entityType/:entityKey", h.Entity)
}
