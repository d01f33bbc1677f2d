package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mguerra/affiliation-service/internal/config"
	"github.com/mguerra/affiliation-service/internal/gateway"
	"github.com/mguerra/affiliation-service/internal/handler"
	"github.com/mguerra/affiliation-service/internal/logging"
	"github.com/mguerra/affiliation-service/internal/middleware"
	"github.com/mguerra/affiliation-service/internal/repository"
	"github.com/mguerra/affiliation-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("affiliation-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	snapshots := gateway.New(cfg.BackofficeURL, gateway.Settings{
		FailureRate:      cfg.BreakerFailureRate,
		MinRequests:      cfg.BreakerMinRequests,
		Window:           time.Duration(cfg.BreakerWindowS) * time.Second,
		OpenInterval:     time.Duration(cfg.BreakerOpenIntervalS) * time.Second,
		HalfOpenMaxCalls: cfg.BreakerHalfOpenCalls,
		CallTimeout:      time.Duration(cfg.BreakerCallTimeoutMS) * time.Millisecond,
	})

	accountSvc := service.NewAccountAffiliationService(
		repository.NewAccountAffiliationRepository(db), snapshots,
	)
	creditSvc := service.NewCreditAffiliationService(
		repository.NewCreditAffiliationRepository(db), snapshots,
	)

	accountHandler := handler.NewAccountAffiliationHandler(accountSvc)
	creditHandler := handler.NewCreditAffiliationHandler(creditSvc)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("GET /affiliations/accounts", accountHandler.GetAll)
	mux.HandleFunc("GET /affiliations/accounts/{id}", accountHandler.GetByID)
	mux.HandleFunc("GET /affiliations/accounts/customers/{id}", accountHandler.GetByCustomer)
	mux.HandleFunc("GET /affiliations/accounts/{customerId}/{accountId}", accountHandler.GetByCustomerAndAccount)
	mux.HandleFunc("POST /affiliations/accounts", accountHandler.Create)
	mux.HandleFunc("PUT /affiliations/accounts/{id}", accountHandler.Update)
	mux.HandleFunc("DELETE /affiliations/accounts/{id}", accountHandler.Delete)

	mux.HandleFunc("GET /affiliations/credits", creditHandler.GetAll)
	mux.HandleFunc("GET /affiliations/credits/{id}", creditHandler.GetByID)
	mux.HandleFunc("GET /affiliations/credits/customers/{id}", creditHandler.GetByCustomer)
	mux.HandleFunc("GET /affiliations/credits/{customerId}/{creditId}", creditHandler.GetByCustomerAndCredit)
	mux.HandleFunc("POST /affiliations/credits", creditHandler.Create)
	mux.HandleFunc("PUT /affiliations/credits/{id}", creditHandler.Update)
	mux.HandleFunc("DELETE /affiliations/credits/{id}", creditHandler.Delete)

	root := middleware.Recovery(middleware.Tracing(middleware.Logging(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
