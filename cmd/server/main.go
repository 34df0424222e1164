package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/draftdesk/internal/adapter/httpserver"
	"github.com/pscheid92/draftdesk/internal/adapter/llm"
	"github.com/pscheid92/draftdesk/internal/adapter/metrics"
	"github.com/pscheid92/draftdesk/internal/adapter/redis"
	"github.com/pscheid92/draftdesk/internal/adapter/sessionstore"
	"github.com/pscheid92/draftdesk/internal/app"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/platform/config"
	"github.com/pscheid92/draftdesk/internal/platform/logging"
	"github.com/pscheid92/draftdesk/internal/platform/version"
	"github.com/pscheid92/draftdesk/internal/quota"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

// sessionBackend bundles the chosen backend with its lifecycle hooks.
type sessionBackend struct {
	backend      sessionstore.Backend
	healthChecks []httpserver.HealthCheck
	run          func(ctx context.Context)
	close        func()
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupSessionBackend(ctx context.Context, cfg *config.Config, clock clockwork.Clock, reg prometheus.Registerer) sessionBackend {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, keeping sessions in memory")
		mem := sessionstore.NewMemoryBackend(clock)
		return sessionBackend{
			backend: mem,
			run:     func(ctx context.Context) { mem.RunSweeper(ctx, sweepInterval) },
			close:   func() {},
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(connectCtx, cfg.RedisURL, metrics.NewRedisMetrics(reg))
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	backend := redis.NewSessionBackend(client)
	return sessionBackend{
		backend:      backend,
		healthChecks: []httpserver.HealthCheck{{Name: "redis", Check: backend.Ping}},
		run:          func(context.Context) {},
		close:        func() { _ = client.Close() },
	}
}

func setupGenerator(cfg *config.Config, toolMetrics *metrics.ToolMetrics) *llm.Client {
	client := llm.NewClient(llm.Config{
		APIKey:           cfg.GroqAPIKey,
		BaseURL:          cfg.GroqBaseURL,
		Model:            cfg.GroqModel,
		Temperature:      float32(cfg.GroqTemperature),
		MaxTokens:        cfg.GroqMaxTokens,
		FailureThreshold: uint(cfg.BreakerFailures),
		BreakerDelay:     cfg.BreakerDelay,
		OnStateChange:    toolMetrics.SetCircuitState,
	})
	toolMetrics.SetCircuitState(client.State())
	return client
}

func quotaPolicy(cfg *config.Config) quota.Policy {
	return quota.Policy{
		Limits: map[domain.Feature]int{
			domain.FeatureEmail:  cfg.QuotaEmailDaily,
			domain.FeatureResume: cfg.QuotaResumeDaily,
		},
		Default: cfg.QuotaDefaultDaily,
	}
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	toolMetrics := metrics.NewToolMetrics(registry)

	sessions := setupSessionBackend(ctx, cfg, clock, registry)
	defer sessions.close()
	store := sessionstore.NewStore(sessions.backend, []byte(cfg.SessionSecret), httpserver.NewSessionOptions(cfg))

	tracker := quota.NewTracker(quotaPolicy(cfg), clock, cfg.QuotaLocation())
	appSvc := app.NewService(tracker, setupGenerator(cfg, toolMetrics), toolMetrics, clock, cfg.GenerationTimeout)

	srv, err := httpserver.NewServer(cfg, appSvc, store, registry, sessions.healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
