package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose scheduling data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("academia://availability").
		Name("Availability").
		Description("Current actor's availability windows, past one-off windows excluded").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListAvailabilityHandler == nil {
				return nil, errNotConnected
			}
			actorID, err := app.ResolveActor("")
			if err != nil {
				return nil, err
			}

			windows, err := app.ListAvailabilityHandler.Handle(ctx, queries.ListAvailabilityQuery{
				ActorID:     actorID,
				CurrentOnly: true,
				Today:       time.Now(),
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, toWindowOutputs(windows, app.Language))
		})

	srv.Resource("academia://templates").
		Name("Group Templates").
		Description("All active recurring group templates").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTemplatesHandler == nil {
				return nil, errNotConnected
			}

			templates, err := app.ListTemplatesHandler.Handle(ctx, queries.ListTemplatesQuery{})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, toTemplateOutputs(templates, app.Language))
		})

	srv.Resource("academia://vocabulary").
		Name("Weekday Vocabulary").
		Description("Weekday labels accepted by every tool, per language").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonContent(uri, vocabulary())
		})

	return nil
}

func vocabulary() map[string][]string {
	out := make(map[string][]string)
	for _, lang := range []vocab.Language{vocab.English, vocab.Spanish} {
		out[string(lang)] = vocab.Labels(lang)
	}
	return out
}

func jsonContent(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
