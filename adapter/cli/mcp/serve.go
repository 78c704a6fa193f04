package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/academia/internal/app"
	mcpinternal "github.com/felixgeelhaar/academia/internal/mcp"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		actorID, err := parseActorID(cfg.ActorID)
		if err != nil {
			return err
		}

		logger := newServerLogger(cmd.OutOrStdout(), cfg.IsDevelopment())

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		cliApp := mcpinternal.NewCLIApp(container, actorID)
		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// parseActorID accepts an empty value; tools then need an explicit actor_id.
func parseActorID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	id, err := sharedDomain.ParseActorID(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid ACADEMIA_ACTOR_ID: %w", err)
	}
	return id.UUID(), nil
}

func newServerLogger(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}
