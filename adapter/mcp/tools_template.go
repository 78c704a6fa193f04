package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type templateSaveInput struct {
	TemplateID string      `json:"template_id,omitempty"`
	Name       string      `json:"name" jsonschema:"required"`
	ResourceID string      `json:"resource_id" jsonschema:"required"`
	Slots      []slotInput `json:"slots" jsonschema:"required"`
	ValidFrom  string      `json:"valid_from,omitempty"`
	ValidUntil string      `json:"valid_until,omitempty"`
	Force      bool        `json:"force,omitempty"`
	Lang       string      `json:"lang,omitempty"`
}

type templateListInput struct {
	ResourceID string `json:"resource_id,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

type templateExpandInput struct {
	TemplateID string `json:"template_id" jsonschema:"required"`
	From       string `json:"from" jsonschema:"required"`
	Until      string `json:"until" jsonschema:"required"`
	Publish    bool   `json:"publish,omitempty"`
}

type templateConflictsInput struct {
	TemplateID string `json:"template_id" jsonschema:"required"`
	From       string `json:"from,omitempty"`
	Until      string `json:"until,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

type templateActiveInput struct {
	TemplateID string `json:"template_id" jsonschema:"required"`
	Active     bool   `json:"active"`
}

type templateOutput struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	ResourceID string       `json:"resource_id"`
	Active     bool         `json:"active"`
	ValidFrom  string       `json:"valid_from,omitempty"`
	ValidUntil string       `json:"valid_until,omitempty"`
	Slots      []slotOutput `json:"slots"`
}

type conflictOutput struct {
	Type          string      `json:"conflict_type"`
	Name          string      `json:"name"`
	Date          string      `json:"date,omitempty"`
	Start         string      `json:"start_time"`
	End           string      `json:"end_time"`
	CandidateSlot *slotOutput `json:"candidate_slot,omitempty"`
}

type templateSaveOutput struct {
	TemplateID string           `json:"template_id"`
	Saved      bool             `json:"saved"`
	Conflicts  []conflictOutput `json:"conflicts"`
}

type templateExpandOutput struct {
	TemplateID   string          `json:"template_id"`
	Sessions     []sessionOutput `json:"sessions"`
	Stored       int             `json:"stored"`
	Published    int             `json:"published"`
	PublishError string          `json:"publish_error,omitempty"`
}

type templateTools struct {
	app *cli.App
}

func registerTemplateTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := templateTools{app: deps.App}

	srv.Tool("template.save").
		Description("Save a recurring group template. Conflicting templates are reported and not saved unless force is set").
		Handler(tools.save)

	srv.Tool("template.list").
		Description("List active group templates").
		Handler(tools.list)

	srv.Tool("template.expand").
		Description("Expand a template into dated sessions for a date range").
		Handler(tools.expand)

	srv.Tool("template.conflicts").
		Description("Report bookings and templates that overlap a template").
		Handler(tools.conflicts)

	srv.Tool("template.set_active").
		Description("Activate or deactivate a template").
		Handler(tools.setActive)

	return nil
}

func (t templateTools) save(ctx context.Context, input templateSaveInput) (*templateSaveOutput, error) {
	if t.app.SaveTemplateHandler == nil {
		return nil, errNotConnected
	}
	templateID, err := parseOptionalUUID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	resourceID, err := parseUUID(input.ResourceID)
	if err != nil {
		return nil, err
	}
	specs, err := parseSlots(input.Slots)
	if err != nil {
		return nil, err
	}
	from, err := parseDate(input.ValidFrom)
	if err != nil {
		return nil, err
	}
	until, err := parseDate(input.ValidUntil)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLanguage(input.Lang, t.app.Language)
	if err != nil {
		return nil, err
	}
	actorID, _ := t.app.ResolveActor("")

	result, err := t.app.SaveTemplateHandler.Handle(ctx, commands.SaveTemplateCommand{
		TemplateID: templateID,
		ActorID:    actorID,
		Name:       input.Name,
		ResourceID: resourceID,
		Slots:      specs,
		ValidFrom:  from,
		ValidUntil: until,
		Force:      input.Force,
	})
	// Unforced conflicts come back in the output with Saved false.
	if err != nil && !(errors.Is(err, domain.ErrTemplateConflicts) && result != nil) {
		return nil, err
	}
	return &templateSaveOutput{
		TemplateID: result.TemplateID.String(),
		Saved:      result.Saved,
		Conflicts:  toConflictOutputs(queries.ConflictDTOs(result.Conflicts), lang),
	}, nil
}

func (t templateTools) list(ctx context.Context, input templateListInput) ([]templateOutput, error) {
	if t.app.ListTemplatesHandler == nil {
		return nil, errNotConnected
	}
	resourceID, err := parseOptionalUUID(input.ResourceID)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLanguage(input.Lang, t.app.Language)
	if err != nil {
		return nil, err
	}

	templates, err := t.app.ListTemplatesHandler.Handle(ctx, queries.ListTemplatesQuery{ResourceID: resourceID})
	if err != nil {
		return nil, err
	}
	return toTemplateOutputs(templates, lang), nil
}

func (t templateTools) expand(ctx context.Context, input templateExpandInput) (*templateExpandOutput, error) {
	if t.app.ExpandTemplateHandler == nil {
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
	actorID, _ := t.app.ResolveActor("")

	result, err := t.app.ExpandTemplateHandler.Handle(ctx, commands.ExpandTemplateCommand{
		TemplateID: templateID,
		ActorID:    actorID,
		StartDate:  from,
		EndDate:    until,
		Publish:    input.Publish,
	})
	if err != nil {
		return nil, err
	}
	return &templateExpandOutput{
		TemplateID:   result.TemplateID.String(),
		Sessions:     toSessionOutputs(queries.SessionDTOs(result.Sessions)),
		Stored:       result.Stored,
		Published:    result.Published,
		PublishError: result.PublishError,
	}, nil
}

func (t templateTools) conflicts(ctx context.Context, input templateConflictsInput) ([]conflictOutput, error) {
	if t.app.DetectConflictsHandler == nil {
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
	lang, err := resolveLanguage(input.Lang, t.app.Language)
	if err != nil {
		return nil, err
	}

	conflicts, err := t.app.DetectConflictsHandler.Handle(ctx, queries.DetectConflictsQuery{
		TemplateID: templateID,
		From:       from,
		Until:      until,
	})
	if err != nil {
		return nil, err
	}
	return toConflictOutputs(conflicts, lang), nil
}

func (t templateTools) setActive(ctx context.Context, input templateActiveInput) (map[string]any, error) {
	if t.app.SetTemplateActiveHandler == nil {
		return nil, errNotConnected
	}
	templateID, err := parseUUID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	actorID, _ := t.app.ResolveActor("")
	if err := t.app.SetTemplateActiveHandler.Handle(ctx, commands.SetTemplateActiveCommand{
		TemplateID: templateID,
		ActorID:    actorID,
		Active:     input.Active,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"template_id": templateID.String(), "active": input.Active}, nil
}

func toTemplateOutputs(templates []queries.TemplateDTO, lang vocab.Language) []templateOutput {
	out := make([]templateOutput, len(templates))
	for i, t := range templates {
		out[i] = templateOutput{
			ID:         t.ID.String(),
			Name:       t.Name,
			ResourceID: t.ResourceID.String(),
			Active:     t.Active,
			Slots:      make([]slotOutput, len(t.Slots)),
		}
		for j, s := range t.Slots {
			out[i].Slots[j] = toSlotOutput(s, lang)
		}
		if t.ValidFrom != nil {
			out[i].ValidFrom = t.ValidFrom.Format(domain.DateLayout)
		}
		if t.ValidUntil != nil {
			out[i].ValidUntil = t.ValidUntil.Format(domain.DateLayout)
		}
	}
	return out
}

func toConflictOutputs(conflicts []queries.ConflictDTO, lang vocab.Language) []conflictOutput {
	out := make([]conflictOutput, len(conflicts))
	for i, c := range conflicts {
		out[i] = conflictOutput{
			Type:  c.Type,
			Name:  c.Name,
			Start: c.Start,
			End:   c.End,
		}
		if c.Date != nil {
			out[i].Date = c.Date.Format(domain.DateLayout)
		}
		if c.CandidateSlot != nil {
			slot := toSlotOutput(*c.CandidateSlot, lang)
			out[i].CandidateSlot = &slot
		}
	}
	return out
}
