package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

type healthOutput struct {
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	srv.Tool("cli.health").
		Description("Report which scheduling handlers are wired").
		Handler(func(ctx context.Context, input struct{}) (healthOutput, error) {
			missing := deps.App.MissingHandlers()
			if len(missing) > 0 {
				return healthOutput{Status: "degraded", Missing: missing}, nil
			}
			return healthOutput{Status: "ok"}, nil
		})

	if err := registerAvailabilityTools(srv, deps); err != nil {
		return err
	}
	if err := registerTemplateTools(srv, deps); err != nil {
		return err
	}
	if err := registerSessionTools(srv, deps); err != nil {
		return err
	}

	return nil
}
