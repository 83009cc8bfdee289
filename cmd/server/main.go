// Package main runs the solver as a long-running HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mslscheduler/internal/cache"
	apperrors "mslscheduler/internal/pkg/errors"
	"mslscheduler/internal/httpapi"
	"mslscheduler/internal/metrics"
	"mslscheduler/internal/middleware"
	"mslscheduler/internal/orchestrator"
	"mslscheduler/internal/pkg/config"
	"mslscheduler/internal/pkg/database"
	"mslscheduler/internal/pkg/logger"
	"mslscheduler/internal/runstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	dbConfig := database.Config{
		Driver:          cfg.RunStore.Driver,
		Host:            cfg.RunStore.Host,
		Port:            cfg.RunStore.Port,
		User:            cfg.RunStore.User,
		Password:        cfg.RunStore.Password,
		DBName:          cfg.RunStore.Name,
		SSLMode:         cfg.RunStore.SSLMode,
		MaxOpenConns:    cfg.RunStore.MaxOpenConns,
		MaxIdleConns:    cfg.RunStore.MaxIdleConns,
		ConnMaxLifetime: cfg.RunStore.ConnMaxLifetime,
	}
	conn, err := database.New(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to run store database: %w", err)
	}

	store := runstore.New(conn.DB())
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate run store: %w", err)
	}

	var warmStart *cache.WarmStartCache
	if rdb, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Sugar().Warnw("redis unavailable, warm-start cache disabled", "error", err)
	} else {
		warmStart = cache.New(rdb, log)
	}

	metricsSvc := metrics.New()

	defaultCfg := orchestrator.DefaultConfig()
	defaultCfg.Strategy = orchestrator.Strategy(cfg.Solver.Strategy)
	defaultCfg.SeedRatio = cfg.Solver.SeedRatio
	defaultCfg.TabuTenure = cfg.Solver.TabuTenure
	defaultCfg.TabuIterations = cfg.Solver.TabuIterations
	defaultCfg.StopAtFirstSolution = cfg.Solver.StopAtFirstSolution
	defaultCfg.DisableLNS = cfg.Solver.DisableLNS
	defaultCfg.DisableTeacherEdgePenalty = cfg.Solver.DisableTeacherEdgePenalty
	defaultCfg.TeacherSpreadWeight = cfg.Solver.TeacherSpreadWeight
	defaultCfg.TeacherEdgeWeight = cfg.Solver.TeacherEdgeWeight
	defaultCfg.DefaultMaxConsec = cfg.Solver.MaxConsecDefault
	defaultCfg.TimeLimitSeconds = cfg.Solver.TimeLimitSeconds
	defaultCfg.CPBackendURL = cfg.CPBackend.URL
	defaultCfg.AllowFallback = cfg.CPBackend.AllowFallback

	jobs := httpapi.NewJobManager(4, store, warmStart, metricsSvc, log)
	handler := httpapi.NewHandler(jobs, defaultCfg)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(log, handler, metricsSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Sugar().Infow("solver server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		log.Sugar().Infow("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Sugar().Warnw("graceful shutdown failed, forcing close", "error", err)
			_ = srv.Close()
		}
	}

	return nil
}

func setupRouter(log *logger.Logger, handler *httpapi.Handler, metricsSvc *metrics.Service) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORSDefault())
	r.Use(middleware.RequestIDDefault())
	r.Use(middleware.RecoveryDefault(log))
	r.Use(middleware.LoggingDefault(log))
	r.Use(apperrors.Handler(log))

	httpapi.RegisterRoutes(r, handler, metricsSvc)

	return r
}
