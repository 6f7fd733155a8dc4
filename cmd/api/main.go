package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/config"
	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/handler"
	"github.com/deynapp/collections-backend/internal/logging"
	"github.com/deynapp/collections-backend/internal/message"
	"github.com/deynapp/collections-backend/internal/middleware"
	"github.com/deynapp/collections-backend/internal/query"
	"github.com/deynapp/collections-backend/internal/repository"
	"github.com/deynapp/collections-backend/internal/scheduler"
	"github.com/deynapp/collections-backend/internal/service"
	"github.com/deynapp/collections-backend/internal/status"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("deyn-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	normalizer := dates.New()
	machine := status.NewMachine(normalizer)
	composer := message.NewComposer(normalizer, decimal.NewFromFloat(cfg.MinBillable), cfg.ContactPhone)
	aggregator := query.NewAggregator(normalizer)

	customerRepo := repository.NewCustomerRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	collection := service.NewCollection(customerRepo, activityRepo, machine, composer, aggregator)

	authHandler := handler.NewAuthHandler(agentRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	customerHandler := handler.NewCustomerHandler(collection)
	healthHandler := handler.NewHealthHandler(db)

	authn := middleware.Auth(cfg.JWTSecret)
	idem := middleware.Idempotency(idempotencyRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	mux.Handle("GET /api/v1/customers", authn(http.HandlerFunc(customerHandler.List)))
	mux.Handle("GET /api/v1/customers/{id}", authn(http.HandlerFunc(customerHandler.Get)))
	mux.Handle("GET /api/v1/customers/{id}/reminder", authn(http.HandlerFunc(customerHandler.Reminder)))

	mux.Handle("POST /api/v1/customers/{id}/status/balan", authn(idem(http.HandlerFunc(customerHandler.Balan))))
	mux.Handle("POST /api/v1/customers/{id}/status/discount", authn(idem(http.HandlerFunc(customerHandler.Discount))))
	mux.Handle("POST /api/v1/customers/{id}/status/paid", authn(idem(http.HandlerFunc(customerHandler.Paid))))
	mux.Handle("POST /api/v1/customers/{id}/status/normal", authn(idem(http.HandlerFunc(customerHandler.Normal))))
	mux.Handle("POST /api/v1/customers/{id}/messages", authn(idem(http.HandlerFunc(customerHandler.RecordSend))))
	mux.Handle("POST /api/v1/customers/{id}/calls", authn(idem(http.HandlerFunc(customerHandler.RecordCall))))

	root := middleware.Recovery(middleware.Tracing(middleware.Logging(mux)))

	digest := scheduler.NewDigest(customerRepo, normalizer, logger)
	if err := digest.Start(cfg.DigestSchedule); err != nil {
		slog.Error("failed to start digest scheduler", "error", err)
		os.Exit(1)
	}
	defer digest.Stop()

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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
