package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/carelink-his/carelink/internal/app"
	"github.com/carelink-his/carelink/internal/auth"
	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/capability"
	"github.com/carelink-his/carelink/internal/observability"
	"github.com/carelink-his/carelink/internal/patients"
	"github.com/carelink-his/carelink/internal/platform/api"
	"github.com/carelink-his/carelink/internal/platform/cache"
	"github.com/carelink-his/carelink/internal/platform/db"
	"github.com/carelink-his/carelink/internal/records"
	"github.com/carelink-his/carelink/internal/refdata"
	"github.com/carelink-his/carelink/internal/reports"
	"github.com/carelink-his/carelink/internal/session"
	"github.com/carelink-his/carelink/internal/transfers"
	"github.com/carelink-his/carelink/internal/users"
	"github.com/carelink-his/carelink/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessions := session.NewManager(redisClient, "carelink_session", cfg.SessionTTL, cfg.IsProduction())

	evaluator := authz.NewEvaluator(authz.DefaultMatrix(), authz.DefaultClassifier())
	guard := authz.Middleware{Evaluator: evaluator, Logger: logger, Metrics: metrics}
	projector := capability.NewProjector(evaluator)
	capabilityHandler := capability.NewHandler(logger, projector)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, logger)
	authHandler := auth.NewHandler(logger, authService, sessions)

	refdataStore := refdata.NewRedisCache(redisClient, cfg.RefdataTTL).WithMetrics(metrics)
	refdataRepo := refdata.NewRepository(pool)
	refdataService := refdata.NewService(refdataStore, refdataRepo, refdataRepo, logger)
	refdataHandler := refdata.NewHandler(logger, refdataService, guard)

	backend, err := api.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	if err != nil {
		logger.Error("init backend client", slog.Any("error", err))
		os.Exit(1)
	}

	usersHandler := users.NewHandler(logger, users.NewService(backend, refdataService), guard)
	patientsHandler := patients.NewHandler(logger, patients.NewService(backend, refdataService), guard)
	recordsHandler := records.NewHandler(logger, records.NewService(backend), guard)
	transfersHandler := transfers.NewHandler(logger, transfers.NewService(backend), guard)
	reportsHandler := reports.NewHandler(logger, reports.NewService(backend), guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Sessions:          sessions,
		Guard:             guard,
		AuthHandler:       authHandler,
		CapabilityHandler: capabilityHandler,
		RefdataHandler:    refdataHandler,
		UsersHandler:      usersHandler,
		PatientsHandler:   patientsHandler,
		RecordsHandler:    recordsHandler,
		TransfersHandler:  transfersHandler,
		ReportsHandler:    reportsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
