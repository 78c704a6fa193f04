package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/academia/internal/app"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/felixgeelhaar/academia/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLoggerFor("worker", "", "", "").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLoggerFor("worker", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting academia worker")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	publisher, err := app.NewEventPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	logger.Info("event publisher initialized")

	processor := container.NewOutboxProcessor(publisher)
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	health := observability.NewHealthRegistry(2 * time.Second)
	health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, container.DBConn.Ping))
	if container.RedisClient != nil {
		health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}
	health.Register("outbox", observability.BacklogChecker(5*time.Minute, func() observability.BacklogSnapshot {
		stats := processor.GetStats()
		return observability.BacklogSnapshot{
			Running:    stats.IsRunning,
			LagSeconds: stats.LagSeconds,
			Dead:       stats.DeadCount,
			LastError:  stats.LastError,
		}
	}))

	if cfg.WorkerHealthAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(statsResponse(processor.GetStats()))
		})
		mux.Handle("/readyz", health)

		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	if cfg.OutboxStatsInterval > 0 {
		statsTicker := time.NewTicker(cfg.OutboxStatsInterval)
		defer statsTicker.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-statsTicker.C:
					stats := processor.GetStats()
					logger.Info("outbox stats",
						"running", stats.IsRunning,
						"published", stats.PublishedCount,
						"failed", stats.FailedCount,
						"dead", stats.DeadCount,
						"lag_seconds", stats.LagSeconds,
						"last_error", stats.LastError,
					)
				}
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")

	fmt.Println("Goodbye!")
}

func statsResponse(stats outbox.Stats) map[string]any {
	return map[string]any{
		"status":            "ok",
		"running":           stats.IsRunning,
		"published":         stats.PublishedCount,
		"failed":            stats.FailedCount,
		"dead":              stats.DeadCount,
		"lag_seconds":       stats.LagSeconds,
		"oldest_message_at": stats.OldestMessageAt,
		"last_processed_at": stats.LastProcessedAt,
		"last_error_at":     stats.LastErrorAt,
		"last_error":        stats.LastError,
	}
}
