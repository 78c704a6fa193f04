package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/cli/availability"
	"github.com/felixgeelhaar/academia/adapter/cli/mcp"
	"github.com/felixgeelhaar/academia/adapter/cli/session"
	"github.com/felixgeelhaar/academia/adapter/cli/template"
	"github.com/felixgeelhaar/academia/internal/app"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/felixgeelhaar/academia/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development", DatabaseDriver: "sqlite", LocalMode: true}
	}

	logger := observability.NewLoggerFor("cli", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			publisher, err := app.NewEventPublisher(cfg, logger)
			if err != nil {
				logger.Error("failed to create event publisher", "error", err)
				os.Exit(1)
			}
			defer publisher.Close()

			processor := container.NewOutboxProcessor(publisher)
			if err := processor.Start(ctx); err != nil {
				logger.Warn("failed to start outbox processor", "error", err)
			}
			defer processor.Stop()
		} else {
			logger.Debug("outbox processor disabled in CLI")
		}

		cliApp = cli.NewApp(
			container.AddWindowHandler,
			container.RemoveWindowHandler,
			container.ToggleCellHandler,
			container.SaveTemplateHandler,
			container.ExpandTemplateHandler,
			container.SetTemplateActiveHandler,
			container.RecordSessionHandler,
			container.ListAvailabilityHandler,
			container.CheckFitHandler,
			container.FindMatchingGroupsHandler,
			container.DetectConflictsHandler,
			container.ListTemplatesHandler,
			container.ListSessionsHandler,
		)

		if cfg.ActorID != "" {
			actorID, err := sharedDomain.ParseActorID(cfg.ActorID)
			if err != nil {
				logger.Error("invalid ACADEMIA_ACTOR_ID", "error", err)
				os.Exit(1)
			}
			cliApp.SetCurrentActorID(actorID.UUID())
		}
	}

	cli.SetApp(cliApp)

	cli.AddCommand(availability.Cmd)
	cli.AddCommand(template.Cmd)
	cli.AddCommand(session.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
