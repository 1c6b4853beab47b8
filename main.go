package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/config"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/routes"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("application_failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting_application")

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	store, err := db.Open(cfg.DB, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	appCache, cacheConnected := connectCache(cfg.Redis, logger)
	defer appCache.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := utils.NewMetrics(registry)

	clock := services.NewClock(loc)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	ledger := services.NewHabitLedger(store, services.NewStreakCalculator(clock), appCache, metrics, logger, clock)

	gin.SetMode(gin.ReleaseMode)
	router := routes.Setup(routes.Deps{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		Gatherer:     registry,
		Store:        store,
		Cache:        appCache,
		CacheEnabled: cacheConnected,
		Accounts:     services.NewAccountService(store, tokens, logger),
		Habits:       services.NewHabitService(store, ledger, appCache, logger),
		Ledger:       ledger,
		Stats:        services.NewStatsService(store, appCache, logger, clock),
		Journal:      services.NewJournalService(store, appCache, logger, clock),
		Tasks:        services.NewTaskService(store, appCache, logger),
		OKRs:         services.NewOKRService(store, appCache, logger),
		Finance:      services.NewFinanceService(store, appCache, logger, clock),
		Portfolio:    services.NewPortfolioService(store, appCache, logger),
		Fitness:      services.NewFitnessService(store, appCache, logger, clock),
	})

	return serve(cfg.Port, router, logger)
}

func serve(port string, router http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server_stopped")
	return nil
}

// connectCache falls back to the no-op cache when Redis is disabled or
// unreachable. The flag reports whether Redis is actually in use.
func connectCache(cfg config.RedisConfig, logger *zap.Logger) (cache.Cache, bool) {
	if !cfg.Enabled {
		return cache.Nop{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisCache, err := cache.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Warn("redis_unavailable_continuing_without_cache", zap.Error(err))
		return cache.Nop{}, false
	}
	return redisCache, true
}
