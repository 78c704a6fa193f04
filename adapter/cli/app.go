package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/vocab"
	scheduleCommands "github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/google/uuid"
)

// ErrNotConnected is returned by commands whose handlers were not wired.
var ErrNotConnected = errors.New("scheduling commands require a database connection")

// App holds the CLI application dependencies.
type App struct {
	// Availability Command Handlers
	AddWindowHandler    *scheduleCommands.AddWindowHandler
	RemoveWindowHandler *scheduleCommands.RemoveWindowHandler
	ToggleCellHandler   *scheduleCommands.ToggleCellHandler

	// Template Command Handlers
	SaveTemplateHandler      *scheduleCommands.SaveTemplateHandler
	ExpandTemplateHandler    *scheduleCommands.ExpandTemplateHandler
	SetTemplateActiveHandler *scheduleCommands.SetTemplateActiveHandler
	RecordSessionHandler     *scheduleCommands.RecordSessionHandler

	// Query Handlers
	ListAvailabilityHandler   *scheduleQueries.ListAvailabilityHandler
	CheckFitHandler           *scheduleQueries.CheckFitHandler
	FindMatchingGroupsHandler *scheduleQueries.FindMatchingGroupsHandler
	DetectConflictsHandler    *scheduleQueries.DetectConflictsHandler
	ListTemplatesHandler      *scheduleQueries.ListTemplatesHandler
	ListSessionsHandler       *scheduleQueries.ListSessionsHandler

	// Current actor (configured per environment, overridable per command)
	CurrentActorID uuid.UUID

	// Language weekday labels are rendered in.
	Language vocab.Language
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	addWindowHandler *scheduleCommands.AddWindowHandler,
	removeWindowHandler *scheduleCommands.RemoveWindowHandler,
	toggleCellHandler *scheduleCommands.ToggleCellHandler,
	saveTemplateHandler *scheduleCommands.SaveTemplateHandler,
	expandTemplateHandler *scheduleCommands.ExpandTemplateHandler,
	setTemplateActiveHandler *scheduleCommands.SetTemplateActiveHandler,
	recordSessionHandler *scheduleCommands.RecordSessionHandler,
	listAvailabilityHandler *scheduleQueries.ListAvailabilityHandler,
	checkFitHandler *scheduleQueries.CheckFitHandler,
	findMatchingGroupsHandler *scheduleQueries.FindMatchingGroupsHandler,
	detectConflictsHandler *scheduleQueries.DetectConflictsHandler,
	listTemplatesHandler *scheduleQueries.ListTemplatesHandler,
	listSessionsHandler *scheduleQueries.ListSessionsHandler,
) *App {
	return &App{
		AddWindowHandler:          addWindowHandler,
		RemoveWindowHandler:       removeWindowHandler,
		ToggleCellHandler:         toggleCellHandler,
		SaveTemplateHandler:       saveTemplateHandler,
		ExpandTemplateHandler:     expandTemplateHandler,
		SetTemplateActiveHandler:  setTemplateActiveHandler,
		RecordSessionHandler:      recordSessionHandler,
		ListAvailabilityHandler:   listAvailabilityHandler,
		CheckFitHandler:           checkFitHandler,
		FindMatchingGroupsHandler: findMatchingGroupsHandler,
		DetectConflictsHandler:    detectConflictsHandler,
		ListTemplatesHandler:      listTemplatesHandler,
		ListSessionsHandler:       listSessionsHandler,
		CurrentActorID:            uuid.Nil,
		Language:                  vocab.English,
	}
}

// SetCurrentActorID updates the current actor ID.
func (a *App) SetCurrentActorID(id uuid.UUID) {
	a.CurrentActorID = id
}

// SetLanguage updates the label language.
func (a *App) SetLanguage(lang vocab.Language) {
	a.Language = lang
}

// ResolveActor returns the actor named by flag, or the current actor when flag is empty.
func (a *App) ResolveActor(flag string) (uuid.UUID, error) {
	if flag != "" {
		id, err := uuid.Parse(flag)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid actor ID: %w", err)
		}
		return id, nil
	}
	if a.CurrentActorID == uuid.Nil {
		return uuid.Nil, errors.New("actor is required (use --actor or set ACADEMIA_ACTOR_ID)")
	}
	return a.CurrentActorID, nil
}

// MissingHandlers names the handlers that were not wired, in declaration order.
func (a *App) MissingHandlers() []string {
	handlers := []struct {
		name  string
		wired bool
	}{
		{"add_window", a.AddWindowHandler != nil},
		{"remove_window", a.RemoveWindowHandler != nil},
		{"toggle_cell", a.ToggleCellHandler != nil},
		{"save_template", a.SaveTemplateHandler != nil},
		{"expand_template", a.ExpandTemplateHandler != nil},
		{"set_template_active", a.SetTemplateActiveHandler != nil},
		{"record_session", a.RecordSessionHandler != nil},
		{"list_availability", a.ListAvailabilityHandler != nil},
		{"check_fit", a.CheckFitHandler != nil},
		{"find_matching_groups", a.FindMatchingGroupsHandler != nil},
		{"detect_conflicts", a.DetectConflictsHandler != nil},
		{"list_templates", a.ListTemplatesHandler != nil},
		{"list_sessions", a.ListSessionsHandler != nil},
	}
	var missing []string
	for _, h := range handlers {
		if !h.wired {
			missing = append(missing, h.name)
		}
	}
	return missing
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
