package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type availabilityAddInput struct {
	ActorID string `json:"actor_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Day     string `json:"day,omitempty"`
	Date    string `json:"date,omitempty"`
	Start   string `json:"start" jsonschema:"required"`
	End     string `json:"end" jsonschema:"required"`
}

type availabilityRemoveInput struct {
	WindowID string `json:"window_id" jsonschema:"required"`
}

type availabilityToggleInput struct {
	ActorID string `json:"actor_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Day     string `json:"day" jsonschema:"required"`
	Hour    int    `json:"hour"`
	Lang    string `json:"lang,omitempty"`
}

type availabilityListInput struct {
	ActorID string `json:"actor_id,omitempty"`
	Current bool   `json:"current,omitempty"`
	Lang    string `json:"lang,omitempty"`
}

type availabilityFitInput struct {
	ActorID string      `json:"actor_id,omitempty"`
	Slots   []slotInput `json:"slots" jsonschema:"required"`
	From    string      `json:"from,omitempty"`
	Until   string      `json:"until,omitempty"`
	Lang    string      `json:"lang,omitempty"`
}

type availabilityMatchInput struct {
	ActorID    string `json:"actor_id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
	From       string `json:"from,omitempty"`
	Until      string `json:"until,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

type windowOutput struct {
	ID              string `json:"id"`
	ActorKind       string `json:"actor_kind"`
	Recurring       bool   `json:"recurring"`
	Day             string `json:"day"`
	Weekday         int    `json:"weekday"`
	Date            string `json:"date,omitempty"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
}

type toggleOutput struct {
	WindowID  string `json:"window_id,omitempty"`
	Day       string `json:"day"`
	Hour      int    `json:"hour"`
	Available bool   `json:"available"`
}

type slotFitOutput struct {
	slotOutput
	Fits bool `json:"fits"`
}

type fitOutput struct {
	Fits  bool            `json:"fits"`
	Slots []slotFitOutput `json:"slots"`
}

type availabilityTools struct {
	app *cli.App
}

func registerAvailabilityTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := availabilityTools{app: deps.App}

	srv.Tool("availability.add").
		Description("Declare an availability window. Give day for a weekly window or date for a one-off window").
		Handler(tools.add)

	srv.Tool("availability.remove").
		Description("Remove an availability window").
		Handler(tools.remove)

	srv.Tool("availability.toggle").
		Description("Flip one hour (0-23) of the weekly availability grid").
		Handler(tools.toggle)

	srv.Tool("availability.list").
		Description("List an actor's availability windows").
		Handler(tools.list)

	srv.Tool("availability.fit").
		Description("Check whether weekly slots fit inside an actor's availability").
		Handler(tools.fit)

	srv.Tool("availability.match").
		Description("Find active group templates whose every slot fits an actor's availability").
		Handler(tools.match)

	return nil
}

func (t availabilityTools) add(ctx context.Context, input availabilityAddInput) (map[string]any, error) {
	if t.app.AddWindowHandler == nil {
		return nil, errNotConnected
	}
	actorID, err := t.app.ResolveActor(input.ActorID)
	if err != nil {
		return nil, err
	}
	kind, err := parseActorKind(input.Kind)
	if err != nil {
		return nil, err
	}
	if (input.Day == "") == (input.Date == "") {
		return nil, errors.New("exactly one of day or date is required")
	}

	var weekday domain.Weekday
	if input.Day != "" {
		if weekday, err = vocab.ParseWeekday(input.Day); err != nil {
			return nil, err
		}
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	result, err := t.app.AddWindowHandler.Handle(ctx, commands.AddWindowCommand{
		ActorID:   actorID,
		ActorKind: kind,
		Weekday:   weekday,
		Date:      date,
		Start:     input.Start,
		End:       input.End,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"window_id": result.WindowID.String(),
		"recurring": result.Recurring,
	}, nil
}

func (t availabilityTools) remove(ctx context.Context, input availabilityRemoveInput) (map[string]string, error) {
	if t.app.RemoveWindowHandler == nil {
		return nil, errNotConnected
	}
	id, err := parseUUID(input.WindowID)
	if err != nil {
		return nil, err
	}
	if err := t.app.RemoveWindowHandler.Handle(ctx, commands.RemoveWindowCommand{WindowID: id}); err != nil {
		return nil, err
	}
	return map[string]string{"status": "removed", "window_id": id.String()}, nil
}

func (t availabilityTools) toggle(ctx context.Context, input availabilityToggleInput) (*toggleOutput, error) {
	if t.app.ToggleCellHandler == nil {
		return nil, errNotConnected
	}
	actorID, err := t.app.ResolveActor(input.ActorID)
	if err != nil {
		return nil, err
	}
	kind, err := parseActorKind(input.Kind)
	if err != nil {
		return nil, err
	}
	weekday, err := vocab.ParseWeekday(input.Day)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLanguage(input.Lang, t.app.Language)
	if err != nil {
		return nil, err
	}

	result, err := t.app.ToggleCellHandler.Handle(ctx, commands.ToggleCellCommand{
		ActorID:   actorID,
		ActorKind: kind,
		Weekday:   weekday,
		Hour:      input.Hour,
	})
	if err != nil {
		return nil, err
	}

	out := &toggleOutput{
		Day:       vocab.Label(result.Weekday, lang),
		Hour:      result.Hour,
		Available: result.Available,
	}
	if result.Available {
		out.WindowID = result.WindowID.String()
	}
	return out, nil
}

func (t availabilityTools) list(ctx context.Context, input availabilityListInput) ([]windowOutput, error) {
	if t.app.ListAvailabilityHandler == nil {
		return nil, errNotConnected
	}
	actorID, err := t.app.ResolveActor(input.ActorID)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLanguage(input.Lang, t.app.Language)
	if err != nil {
		return nil, err
	}

	windows, err := t.app.ListAvailabilityHandler.Handle(ctx, queries.ListAvailabilityQuery{
		ActorID:     actorID,
		CurrentOnly: input.Current,
		Today:       time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return toWindowOutputs(windows, lang), nil
}

func (t availabilityTools) fit(ctx context.Context, input availabilityFitInput) (*fitOutput, error) {
	if t.app.CheckFitHandler == nil {
		return nil, errNotConnected
	}
	actorID, err := t.app.ResolveActor(input.ActorID)
	if err != nil {
		return nil, err
	}
	specs, err := parseSlots(input.Slots)
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

	result, err := t.app.CheckFitHandler.Handle(ctx, queries.CheckFitQuery{
		ActorID: actorID,
		Slots:   specs,
		From:    from,
		Until:   until,
	})
	if err != nil {
		return nil, err
	}

	out := &fitOutput{Fits: result.Fits, Slots: make([]slotFitOutput, len(result.Slots))}
	for i, s := range result.Slots {
		out.Slots[i] = slotFitOutput{slotOutput: toSlotOutput(s.Slot, lang), Fits: s.Fits}
	}
	return out, nil
}

func (t availabilityTools) match(ctx context.Context, input availabilityMatchInput) ([]templateOutput, error) {
	if t.app.FindMatchingGroupsHandler == nil {
		return nil, errNotConnected
	}
	actorID, err := t.app.ResolveActor(input.ActorID)
	if err != nil {
		return nil, err
	}
	resourceID, err := parseOptionalUUID(input.ResourceID)
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

	groups, err := t.app.FindMatchingGroupsHandler.Handle(ctx, queries.FindMatchingGroupsQuery{
		ActorID:    actorID,
		ResourceID: resourceID,
		From:       from,
		Until:      until,
	})
	if err != nil {
		return nil, err
	}
	return toTemplateOutputs(groups, lang), nil
}

func toSlotOutput(s queries.SlotDTO, lang vocab.Language) slotOutput {
	return slotOutput{
		Day:             vocab.Label(s.Weekday, lang),
		Weekday:         int(s.Weekday),
		Start:           s.Start,
		End:             s.End,
		DurationMinutes: s.DurationMin,
	}
}

func toWindowOutputs(windows []queries.WindowDTO, lang vocab.Language) []windowOutput {
	out := make([]windowOutput, len(windows))
	for i, w := range windows {
		out[i] = windowOutput{
			ID:              w.ID.String(),
			ActorKind:       w.ActorKind,
			Recurring:       w.Recurring,
			Day:             vocab.Label(w.Weekday, lang),
			Weekday:         int(w.Weekday),
			Start:           w.Start,
			End:             w.End,
			DurationMinutes: w.DurationMin,
		}
		if w.SpecificDate != nil {
			out[i].Date = w.SpecificDate.Format(domain.DateLayout)
		}
	}
	return out
}
