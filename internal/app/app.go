// Package app wires domain services to their storage. The same graph is
// used by cmd/server, cmd/seed and the API tests; a nil database selects
// in-memory mode.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"metapos/internal/core/numerator"
	"metapos/internal/core/tx"
	"metapos/internal/domain/auth"
	"metapos/internal/domain/catalogs/customer"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/documents/sale"
	"metapos/internal/domain/registers/stock"
	"metapos/internal/domain/reports"
	v1 "metapos/internal/infrastructure/http/v1"
	"metapos/internal/infrastructure/http/v1/handlers"
	"metapos/internal/infrastructure/storage/postgres"
	"metapos/internal/infrastructure/storage/postgres/auth_repo"
	"metapos/internal/infrastructure/storage/postgres/catalog_repo"
	"metapos/internal/infrastructure/storage/postgres/document_repo"
	"metapos/internal/infrastructure/storage/postgres/register_repo"
	pgnumerator "metapos/pkg/numerator"
	"metapos/pkg/logger"
)

// Config holds application settings.
type Config struct {
	JWT           auth.JWTConfig
	Auth          auth.ServiceConfig
	LowStockLimit int64
	Clock         func() time.Time
}

// App is the assembled service graph.
type App struct {
	// mu guards the ledger; product, stock and sale services share it
	mu sync.Mutex

	DB       *postgres.TxManager
	Settings *postgres.Settings
	// Audit is empty in in-memory mode
	Audit *postgres.AuditLog

	Registry *product.Registry
	Ledger   *stock.Ledger

	Products  *product.Service
	Stock     *stock.Service
	Sales     *sale.Service
	Customers *customer.Service
	Auth      *auth.Service
	Reports   *reports.Service
}

// New builds the service graph. db may be nil.
func New(ctx context.Context, cfg Config, db *postgres.TxManager) (*App, error) {
	a := &App{
		DB:       db,
		Registry: product.NewRegistry(),
		Ledger:   stock.NewLedger(),
	}

	var (
		txm          tx.Manager
		productRepo  product.Repository
		stockRepo    stock.Repository
		saleRepo     sale.Repository
		customerRepo customer.Repository
		operatorRepo auth.OperatorRepository = auth.NewMemoryRepository()
		invoices     numerator.Generator     = numerator.NewMemory()
	)

	audit, err := postgres.NewAuditLog(db)
	if err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}
	a.Audit = audit

	if db != nil {
		txm = db
		productRepo = catalog_repo.NewProductRepo(db, audit)
		stockRepo = register_repo.NewStockRepo(db)
		saleRepo = document_repo.NewSaleRepo(db, audit)
		customerRepo = catalog_repo.NewCustomerRepo(db)
		operatorRepo = auth_repo.NewOperatorRepo(db)
		invoices = pgnumerator.New(db)
		a.Settings = postgres.NewSettings(db)

		if cfg.LowStockLimit <= 0 {
			cfg.LowStockLimit = a.Settings.Int(ctx, postgres.SettingLowStockLimit, reports.DefaultLowStockLimit)
		}
	}

	a.Products = product.NewService(&a.mu, a.Registry, productRepo, txm)
	a.Stock = stock.NewService(stock.Config{
		Lock:      &a.mu,
		Registry:  a.Registry,
		Ledger:    a.Ledger,
		Products:  productRepo,
		Repo:      stockRepo,
		TxManager: txm,
	})
	a.Customers = customer.NewService(customerRepo)
	a.Sales = sale.NewService(sale.Config{
		Lock:      &a.mu,
		Ledger:    a.Ledger,
		Repo:      saleRepo,
		StockRepo: stockRepo,
		TxManager: txm,
		Numerator: invoices,
		Customers: a.Customers,
		Clock:     cfg.Clock,
	})
	a.Auth = auth.NewService(operatorRepo, auth.NewJWTService(cfg.JWT), cfg.Auth)
	a.Reports = reports.NewService(a.Stock, a.Sales, cfg.LowStockLimit)

	return a, nil
}

// Load restores the registry and ledger from the store.
func (a *App) Load(ctx context.Context) error {
	if err := a.Stock.Load(ctx); err != nil {
		return fmt.Errorf("load stock: %w", err)
	}
	logger.Info(ctx, "catalog loaded", "products", a.Registry.Len())
	return nil
}

// Router returns the HTTP API over the graph.
func (a *App) Router(log *logger.Logger) *gin.Engine {
	var db handlers.Pinger
	if a.DB != nil {
		db = a.DB
	}
	return v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		DB:              db,
		AuthService:     a.Auth,
		ProductService:  a.Products,
		StockService:    a.Stock,
		SaleService:     a.Sales,
		CustomerService: a.Customers,
		ReportService:   a.Reports,
		AuditLog:        a.Audit,
	})
}

// SeedOperators makes sure the default admin and cashier exist.
func (a *App) SeedOperators(ctx context.Context, adminPassword, cashierPassword string) error {
	seeds := []auth.RegisterRequest{
		{Name: "admin", Password: adminPassword, Role: auth.RoleAdmin},
		{Name: "caixa", Password: cashierPassword, Role: auth.RoleCashier},
	}
	for _, req := range seeds {
		if req.Password == "" {
			continue
		}
		op, created, err := a.Auth.EnsureOperator(ctx, req)
		if err != nil {
			return fmt.Errorf("seed operator %s: %w", req.Name, err)
		}
		if created {
			logger.Info(ctx, "operator seeded", "name", op.Name, "role", op.Role)
		}
	}
	return nil
}
