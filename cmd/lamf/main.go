package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/config"
	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/handler"
	"github.com/boddenberg/lamf-portal-go/internal/infra/cache"
	"github.com/boddenberg/lamf-portal-go/internal/infra/client"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/infra/resilience"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	dotenvErr := config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if dotenvErr != nil {
		logger.Warn("ignoring malformed .env file", zap.Error(dotenvErr))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("lamf_api_url", cfg.LAMFAPIURL),
		zap.String("collateral_api_url", cfg.CollateralAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("operator_login", cfg.AuthEnabled()),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "lamf-portal")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Session state ---
	viewStates := cache.New[domain.ViewState](cfg.SessionTTL)
	defer viewStates.Close()
	flashStore := cache.New[domain.Flash](cfg.SessionTTL)
	defer flashStore.Close()
	loginAttempts := cache.New[service.LoginAttempts](time.Hour)
	defer loginAttempts.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Clients ---
	// Each remote service gets its own breaker and bulkhead.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	core := client.New(httpClient, client.ServiceCore, cfg.LAMFAPIURL, resilienceCfg, logger, metrics)
	collateral := client.New(httpClient, client.ServiceCollateral, cfg.CollateralAPIURL, resilienceCfg, logger, metrics)

	// --- Services ---
	views := service.NewViewTracker(viewStates, metrics)
	authSvc := service.NewAuthService(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTSessionTTL, loginAttempts, logger)
	if authSvc.Enabled() {
		logger.Info("operator login enabled", zap.String("user", cfg.AdminUser))
	} else {
		logger.Warn("operator login disabled: ADMIN_PASSWORD_HASH not set, admin console is open")
	}

	services := handler.Services{
		Dashboard:    service.NewDashboardService(client.NewDashboardClient(core), logger),
		Applications: service.NewApplicationsService(client.NewApplicationsClient(core), client.NewAccountsClient(core), views, metrics, logger),
		Collateral:   service.NewCollateralService(client.NewCollateralClient(collateral), views, metrics, logger),
		Repayment:    service.NewRepaymentService(client.NewRepaymentsClient(core), views, metrics, logger),
		Calculator:   service.NewCalculatorService(metrics),
		Auth:         authSvc,
		Flashes:      service.NewFlashes(flashStore),
		Views:        views,
		Backends:     []handler.Backend{core, collateral},
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}

	// --- Router ---
	router := handler.NewRouter(services, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
