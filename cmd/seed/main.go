// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"metapos/internal/app"
	"metapos/internal/core/apperror"
	"metapos/internal/core/numerator"
	"metapos/internal/core/types"
	"metapos/internal/domain/auth"
	"metapos/internal/domain/catalogs/customer"
	"metapos/internal/domain/documents/sale"
	"metapos/internal/domain/registers/stock"
	"metapos/internal/infrastructure/storage/postgres"
	"metapos/pkg/logger"
	pgnumerator "metapos/pkg/numerator"
)

var demoProducts = []stock.RegisterInput{
	{Code: "7891000100103", Name: "Leite Integral 1L", Price: types.MustMoney("4.99"), Category: "Laticínios", InitialQuantity: 48},
	{Code: "7891910000197", Name: "Açúcar Refinado 1kg", Price: types.MustMoney("5.49"), Category: "Mercearia", InitialQuantity: 30},
	{Code: "7896005800010", Name: "Arroz Branco 5kg", Price: types.MustMoney("27.90"), Category: "Mercearia", InitialQuantity: 12},
	{Code: "7894900011517", Name: "Refrigerante Cola 2L", Price: types.MustMoney("9.99"), Category: "Bebidas", InitialQuantity: 24},
	{Code: "7896045104482", Name: "Café Torrado 500g", Price: types.MustMoney("18.50"), Category: "Mercearia", InitialQuantity: 4},
	{Code: "7891150037380", Name: "Sabonete 90g", Price: types.MustMoney("2.79"), Category: "Higiene", InitialQuantity: 0},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	db := postgres.NewTxManager(pool)
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}
	log.Info("connected to database")

	a, err := app.New(ctx, app.Config{
		JWT:  auth.DefaultJWTConfig("seed"),
		Auth: auth.DefaultServiceConfig(),
	}, db)
	if err != nil {
		log.Fatalw("failed to build application", "error", err)
	}
	if err := a.Load(ctx); err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}

	if err := a.SeedOperators(ctx,
		getEnv("ADMIN_PASSWORD", "admin123"),
		getEnv("CASHIER_PASSWORD", "caixa123"),
	); err != nil {
		log.Fatalw("failed to seed operators", "error", err)
	}

	if err := seedSettings(ctx, a.Settings); err != nil {
		log.Fatalw("failed to seed settings", "error", err)
	}

	// A store migrating from another till continues its invoice sequence.
	if last := os.Getenv("LAST_INVOICE_NUMBER"); last != "" {
		if err := pgnumerator.New(db).ContinueFrom(ctx, numerator.DefaultConfig(sale.InvoicePrefix), last); err != nil {
			log.Fatalw("failed to set invoice sequence", "error", err)
		}
		log.Infow("invoice sequence set", "last", last)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, a, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedSettings(ctx context.Context, settings *postgres.Settings) error {
	if err := settings.Set(ctx, postgres.SettingStoreName, getEnv("STORE_NAME", "Mercadinho"), "Name printed on receipts"); err != nil {
		return err
	}
	limit := getEnv("LOW_STOCK_LIMIT", "5")
	if _, err := strconv.ParseInt(limit, 10, 64); err != nil {
		return fmt.Errorf("LOW_STOCK_LIMIT %q: %w", limit, err)
	}
	return settings.Set(ctx, postgres.SettingLowStockLimit, limit, "Quantity below which a product is reported as low stock")
}

func seedDemoData(ctx context.Context, a *app.App, log *logger.Logger) error {
	for _, in := range demoProducts {
		p, err := a.Stock.RegisterProduct(ctx, in)
		if apperror.Is(err, apperror.CodeAlreadyRegistered) {
			log.Infow("product already registered, skipping", "code", in.Code)
			continue
		}
		if err != nil {
			return fmt.Errorf("register product %s: %w", in.Code, err)
		}
		log.Infow("product created", "code", p.Code, "quantity", in.InitialQuantity)
	}

	customers, err := a.Customers.List(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	if len(customers) > 0 {
		return nil
	}
	c, err := a.Customers.Register(ctx, &customer.Customer{Name: "Consumidor Final"})
	if err != nil {
		return fmt.Errorf("register customer: %w", err)
	}
	log.Infow("customer created", "id", c.RowID)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
