package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type sessionRecordInput struct {
	ResourceID string `json:"resource_id" jsonschema:"required"`
	Name       string `json:"name,omitempty"`
	Date       string `json:"date" jsonschema:"required"`
	Start      string `json:"start" jsonschema:"required"`
	End        string `json:"end" jsonschema:"required"`
}

type sessionListInput struct {
	TemplateID string `json:"template_id" jsonschema:"required"`
	From       string `json:"from,omitempty"`
	Until      string `json:"until,omitempty"`
}

type sessionOutput struct {
	TemplateID      string `json:"template_id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
}

type sessionTools struct {
	app *cli.App
}

func registerSessionTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := sessionTools{app: deps.App}

	srv.Tool("session.record").
		Description("Record a one-to-one session booked with a tutor or room").
		Handler(tools.record)

	srv.Tool("session.list").
		Description("List the sessions a template was expanded into").
		Handler(tools.list)

	return nil
}

func (t sessionTools) record(ctx context.Context, input sessionRecordInput) (map[string]string, error) {
	if t.app.RecordSessionHandler == nil {
		return nil, errNotConnected
	}
	resourceID, err := parseUUID(input.ResourceID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, errors.New("date is required")
	}

	result, err := t.app.RecordSessionHandler.Handle(ctx, commands.RecordSessionCommand{
		ResourceID: resourceID,
		Name:       input.Name,
		Date:       date,
		Start:      input.Start,
		End:        input.End,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"session_id": result.SessionID.String()}, nil
}

func (t sessionTools) list(ctx context.Context, input sessionListInput) ([]sessionOutput, error) {
	if t.app.ListSessionsHandler == nil {
		return nil, errNotConnected
	}
	templateID, err := parseUUID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	from, err := parseDate(input.From)
	if err != nil {
		return nil, err
	}
	until, err := parseDate(input.Until)
	if err != nil {
		return nil, err
	}

	sessions, err := t.app.ListSessionsHandler.Handle(ctx, queries.ListSessionsQuery{
		TemplateID: templateID,
		From:       from,
		Until:      until,
	})
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func toSessionOutputs(sessions []queries.SessionDTO) []sessionOutput {
	out := make([]sessionOutput, len(sessions))
	for i, s := range sessions {
		out[i] = sessionOutput{
			TemplateID:      s.TemplateID.String(),
			Date:            s.Date.Format(domain.DateLayout),
			Start:           s.Start,
			End:             s.End,
			DurationMinutes: s.DurationMin,
		}
	}
	return out
}
