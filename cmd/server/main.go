// Package main is the entry point for the metapos API server.
// DATABASE_URL selects PostgreSQL persistence; without it the server runs in memory.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"metapos/internal/app"
	"metapos/internal/domain/auth"
	"metapos/internal/infrastructure/storage/postgres"
	"metapos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	// --- Database (optional) ---
	var db *postgres.TxManager
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		poolCfg := postgres.DefaultPoolConfig(dsn)
		if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
			poolCfg.MaxConns = int32(maxConns)
		}
		poolCfg.StatementTimeout = getEnvDuration("DB_STATEMENT_TIMEOUT", poolCfg.StatementTimeout)
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		db = postgres.NewTxManager(pool)
		if getEnv("AUTO_MIGRATE", "true") == "true" {
			if err := postgres.Migrate(ctx, db); err != nil {
				log.Fatalw("failed to migrate database", "error", err)
			}
		}
		log.Infow("database connection established", "max_conns", poolCfg.MaxConns)
	} else {
		log.Warn("DATABASE_URL not set, running in memory; data is lost on restart")
	}

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(getEnv("JWT_SECRET", "change-me-in-production"))
	jwtConfig.AccessTokenTTL = getEnvDuration("JWT_TTL", jwtConfig.AccessTokenTTL)

	application, err := app.New(ctx, app.Config{
		JWT:           jwtConfig,
		Auth:          auth.DefaultServiceConfig(),
		LowStockLimit: int64(getEnvInt("LOW_STOCK_LIMIT", 0)),
	}, db)
	if err != nil {
		log.Fatalw("failed to build application", "error", err)
	}
	if err := application.Load(ctx); err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}
	if err := application.SeedOperators(ctx,
		os.Getenv("SEED_ADMIN_PASSWORD"),
		os.Getenv("SEED_CASHIER_PASSWORD"),
	); err != nil {
		log.Fatalw("failed to seed operators", "error", err)
	}

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      application.Router(log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "persistent", db != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
