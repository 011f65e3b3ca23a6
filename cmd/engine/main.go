// Package main is the entry point of the academic scoring engine. It wires
// the record store, analytics cache, and risk classifier behind the command
// and query handlers, then serves health and readiness endpoints until
// shutdown.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edupulse/academic-engine/config"
	"github.com/edupulse/academic-engine/internal/application"
	"github.com/edupulse/academic-engine/internal/application/command"
	"github.com/edupulse/academic-engine/internal/application/query"
	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/infrastructure/external/classifier"
	"github.com/edupulse/academic-engine/internal/infrastructure/persistence/postgres"
	"github.com/edupulse/academic-engine/internal/infrastructure/persistence/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// Missing .env is fine; production configures through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	slog.SetDefault(log)

	log.Info("starting academic scoring engine",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := postgres.NewConnection(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database ready")

	repo := postgres.NewRecordRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (OPTIONAL)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		analyticsCache *redis.AnalyticsCache
		redisClient    *redis.Cache
	)
	if !cfg.Redis.Disabled {
		redisClient, err = connectRedis(cfg)
		if err != nil {
			// The engine is fully functional without the cache, analytics
			// reads just scan the store on every request.
			log.Warn("redis unavailable, analytics caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			analyticsCache = redis.NewAnalyticsCache(redisClient, cfg.Redis.AnalyticsTTL)
			log.Info("redis ready")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. CLASSIFIER
	// ─────────────────────────────────────────────────────────────────────────
	var (
		clf        command.Classifier
		httpClf    *classifier.Client
		enrichment = command.EnrichmentConfig{
			ImprovementRate: cfg.Classifier.ImprovementRate,
			Timeout:         cfg.Classifier.Timeout,
		}
	)
	if cfg.UseRuleBasedClassifier() {
		clf = classifier.NewRuleBased()
		log.Info("using rule-based classifier")
	} else {
		clientCfg := classifier.DefaultClientConfig(cfg.Classifier.BaseURL)
		clientCfg.Timeout = cfg.Classifier.Timeout
		clientCfg.Logger = log
		httpClf = classifier.NewClient(clientCfg)
		clf = httpClf
		log.Info("using prediction service classifier", "url", cfg.Classifier.BaseURL)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	deps := application.Dependencies{
		Repo:       repo,
		Classifier: clf,
		Catalog:    record.DefaultCatalog(),
		Enrichment: enrichment,
		Logger:     log,
	}
	if analyticsCache != nil {
		deps.Cache = analyticsCache
		deps.Invalidator = analyticsCache
	}
	engine := application.NewEngine(deps)

	// Warm the analytics snapshot so the first dashboard read is served
	// from cache. Best effort.
	if analytics, err := engine.ClassAnalytics.Handle(ctx, query.ClassAnalyticsQuery{}); err != nil {
		log.Warn("analytics warmup failed", "error", err)
	} else {
		log.Info("roster loaded", "students", analytics.TotalStudents, "at_risk", analytics.AtRiskStudents)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HEALTH ENDPOINT
	// ─────────────────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":  "OK",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		}

		checkCtx, checkCancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer checkCancel()

		healthy := true
		if err := conn.Ping(checkCtx); err != nil {
			status["database"] = "down"
			healthy = false
		} else {
			status["database"] = "up"
		}

		if redisClient != nil {
			if err := redisClient.Ping(checkCtx); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}

		if httpClf != nil {
			status["classifier_circuit"] = httpClf.BreakerState().String()
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			status["status"] = "DEGRADED"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})

	server := &http.Server{
		Addr:         cfg.App.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}

// connectRedis builds the cache client from either a URL or host settings.
func connectRedis(cfg *config.Config) (*redis.Cache, error) {
	if cfg.Redis.URL != "" {
		return redis.NewCacheFromURL(cfg.Redis.URL)
	}

	return redis.NewCache(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
}

// setupLogger builds the process logger from observability settings.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Observability.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.App.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Observability.LogFormat) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
