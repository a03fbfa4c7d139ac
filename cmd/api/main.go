package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AIS0001/triplogic-backend/internal/config"
	"github.com/AIS0001/triplogic-backend/internal/handler"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/repository"
	"github.com/AIS0001/triplogic-backend/internal/server"
	"github.com/AIS0001/triplogic-backend/internal/service/bill"
	"github.com/AIS0001/triplogic-backend/internal/service/payment"
)

const idempotencySweepInterval = time.Hour

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("triplogic-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := repository.MigrateUp(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			slog.Error("failed to apply migrations", "error", err, "dir", cfg.MigrationsDir)
			os.Exit(1)
		}
		slog.Info("migrations applied", "dir", cfg.MigrationsDir)
	}

	txdb := repository.NewDB(db, cfg.TxTimeout())
	billRepo := repository.NewBillRepository(db)
	advanceRepo := repository.NewAdvanceBillRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	idemRepo := repository.NewIdempotencyRepository(db)

	billSvc := bill.NewService(billRepo, advanceRepo, ledgerRepo, voucherRepo, txdb)
	paymentSvc := payment.NewService(billRepo, voucherRepo, ledgerRepo, txdb)

	router := server.NewRouter(server.Handlers{
		Health:   handler.NewHealthHandler(db),
		Bills:    handler.NewBillHandler(billSvc),
		Payments: handler.NewPaymentHandler(paymentSvc),
		Ledger:   handler.NewLedgerHandler(billSvc),
	}, cfg.JWTSecret, idemRepo)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepIdempotency(sweepCtx, idemRepo)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var err error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, openErr := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if openErr == nil {
			return db, nil
		}
		err = openErr
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}

type expiredCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

func sweepIdempotency(ctx context.Context, repo expiredCleaner) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanExpired(ctx)
			if err != nil {
				slog.Warn("idempotency sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("idempotency sweep", "removed", n)
			}
		}
	}
}
