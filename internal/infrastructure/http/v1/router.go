// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"metapos/internal/domain/auth"
	"metapos/internal/domain/catalogs/customer"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/documents/sale"
	"metapos/internal/domain/registers/stock"
	"metapos/internal/domain/reports"
	"metapos/internal/infrastructure/http/v1/handlers"
	"metapos/internal/infrastructure/http/v1/middleware"
	"metapos/pkg/logger"
)

// Version is reported by /health/info.
const Version = "0.1.0"

// RouterConfig holds the services exposed by the API.
type RouterConfig struct {
	Logger *logger.Logger

	// DB is pinged by /health/ready; nil in in-memory mode
	DB handlers.Pinger

	AuthService     *auth.Service
	ProductService  *product.Service
	StockService    *stock.Service
	SaleService     *sale.Service
	CustomerService *customer.Service
	ReportService   *reports.Service

	// AuditLog serves product history
	AuditLog handlers.HistorySource
}

// NewRouter creates and configures the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Order matters: recovery wraps everything, errors render last.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.AuthService))

	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	registerAuthRoutes(protected, authHandler, adminOnly)
	registerProductRoutes(protected, handlers.NewProductHandler(base, cfg.ProductService, cfg.StockService, cfg.AuditLog), adminOnly)
	registerStockRoutes(protected, handlers.NewStockHandler(base, cfg.StockService), adminOnly)
	registerSaleRoutes(protected, handlers.NewSaleHandler(base, cfg.SaleService))
	registerCustomerRoutes(protected, handlers.NewCustomerHandler(base, cfg.CustomerService))
	registerReportRoutes(protected, handlers.NewReportsHandler(base, cfg.ReportService))

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, adminOnly gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.GET("/me", h.Me)
	g.GET("/operators", adminOnly, h.ListOperators)
	g.POST("/operators", adminOnly, h.RegisterOperator)
}

func registerProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler, adminOnly gin.HandlerFunc) {
	g := rg.Group("/products")
	g.GET("", h.List)
	g.POST("", adminOnly, h.Create)
	g.GET("/:code", h.Get)
	g.GET("/:code/history", adminOnly, h.History)
	g.PUT("/:code/price", adminOnly, h.UpdatePrice)
	g.POST("/:code/activate", adminOnly, h.Activate)
	g.POST("/:code/deactivate", adminOnly, h.Deactivate)
}

func registerStockRoutes(rg *gin.RouterGroup, h *handlers.StockHandler, adminOnly gin.HandlerFunc) {
	g := rg.Group("/stock")
	g.GET("", h.List)
	g.GET("/:code", h.Get)
	g.GET("/:code/movements", h.Movements)
	g.POST("/:code/add", adminOnly, h.Add)
	g.POST("/:code/remove", adminOnly, h.Remove)
}

func registerSaleRoutes(rg *gin.RouterGroup, h *handlers.SaleHandler) {
	g := rg.Group("/sales")
	g.POST("", h.Open)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/items", h.AddItem)
	g.PUT("/:id/discount", h.ApplyDiscount)
	g.POST("/:id/finalize", h.Finalize)
	g.POST("/:id/cancel", h.Cancel)
	g.GET("/:id/receipt", h.Receipt)
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *handlers.CustomerHandler) {
	g := rg.Group("/customers")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
}

func registerReportRoutes(rg *gin.RouterGroup, h *handlers.ReportsHandler) {
	g := rg.Group("/reports")
	g.GET("/low-stock", h.LowStock)
	g.GET("/sales", h.Sales)
}
