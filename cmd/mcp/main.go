package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/academia/internal/app"
	mcpinternal "github.com/felixgeelhaar/academia/internal/mcp"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/felixgeelhaar/academia/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLoggerFor("mcp", "", "", "").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLoggerFor("mcp", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	var actorID sharedDomain.ActorID
	if cfg.ActorID != "" {
		if actorID, err = sharedDomain.ParseActorID(cfg.ActorID); err != nil {
			logger.Error("invalid ACADEMIA_ACTOR_ID", "error", err)
			os.Exit(1)
		}
	}

	cliApp := mcpinternal.NewCLIApp(container, actorID.UUID())

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
