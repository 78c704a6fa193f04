package mcp

import (
	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentActor uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
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

	cliApp.SetCurrentActorID(currentActor)
	return cliApp
}
