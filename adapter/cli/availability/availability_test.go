package availability

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	internalApp "github.com/felixgeelhaar/academia/internal/app"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testActorID is a fixed actor ID for tests
var testActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// setupLocalModeTestApp creates a test application with SQLite for integration tests.
func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		LocalMode:          true,
		DatabaseDriver:     "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "test.db"),
		DefaultSlotMinutes: 60,
		ConflictSource:     config.ConflictSourceLocal,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

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
	cliApp.SetCurrentActorID(testActorID)

	cli.SetApp(cliApp)
	t.Cleanup(func() { cli.SetApp(nil) })
	return cliApp
}

func run(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, []string{})
	return out.String(), err
}

func resetAddFlags() {
	addActor, addKind, addDay, addDate, addStart, addEnd = "", "student", "", "", "", ""
}

func TestAddCmd_WeeklyWindow(t *testing.T) {
	app := setupLocalModeTestApp(t)
	resetAddFlags()
	addDay = "martes"
	addStart = "17:00"
	addEnd = "21:00"

	out, err := run(t, addCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Added weekly window: Tuesday 17:00-21:00")

	windows, err := app.ListAvailabilityHandler.Handle(context.Background(), queries.ListAvailabilityQuery{ActorID: testActorID})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, domain.Tuesday, windows[0].Weekday)
}

func TestAddCmd_OneOffWindow(t *testing.T) {
	setupLocalModeTestApp(t)
	resetAddFlags()
	addDate = "2024-03-12"
	addStart = "09:00"
	addEnd = "12:00"

	out, err := run(t, addCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Added one-off window: 2024-03-12 09:00-12:00")
}

func TestAddCmd_Invalid(t *testing.T) {
	setupLocalModeTestApp(t)

	tests := []struct {
		name  string
		setup func()
		want  string
	}{
		{"neither day nor date", func() { addStart, addEnd = "09:00", "10:00" }, "exactly one of --day or --date"},
		{"both day and date", func() { addDay, addDate, addStart, addEnd = "monday", "2024-03-04", "09:00", "10:00" }, "exactly one of --day or --date"},
		{"unknown kind", func() { addKind, addDay, addStart, addEnd = "parent", "monday", "09:00", "10:00" }, "invalid actor kind"},
		{"start after end", func() { addDay, addStart, addEnd = "monday", "10:00", "09:00" }, "invalid window"},
		{"unknown day", func() { addDay, addStart, addEnd = "someday", "09:00", "10:00" }, "invalid weekday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAddFlags()
			tt.setup()
			_, err := run(t, addCmd)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestToggleCmd_OnAndOff(t *testing.T) {
	app := setupLocalModeTestApp(t)
	app.SetLanguage(vocab.Spanish)
	toggleActor, toggleKind, toggleDay, toggleHour = "", "student", "lunes", 18

	out, err := run(t, toggleCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Lunes 18:00 is now free")

	out, err = run(t, toggleCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Lunes 18:00 is now busy")

	toggleHour = 24
	_, err = run(t, toggleCmd)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestRemoveCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	added, err := app.AddWindowHandler.Handle(ctx, commands.AddWindowCommand{
		ActorID:   testActorID,
		ActorKind: domain.ActorKindStudent,
		Weekday:   domain.Friday,
		Start:     "10:00",
		End:       "11:00",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	removeCmd.SetOut(&out)
	removeCmd.SetContext(ctx)
	require.NoError(t, removeCmd.RunE(removeCmd, []string{added.WindowID.String()}))
	assert.Contains(t, out.String(), "Removed window")

	err = removeCmd.RunE(removeCmd, []string{added.WindowID.String()})
	assert.ErrorIs(t, err, domain.ErrWindowNotFound)

	err = removeCmd.RunE(removeCmd, []string{"nope"})
	assert.ErrorContains(t, err, "invalid window ID")
}

func TestListFitAndMatch(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	_, err := app.AddWindowHandler.Handle(ctx, commands.AddWindowCommand{
		ActorID:   testActorID,
		ActorKind: domain.ActorKindStudent,
		Weekday:   domain.Tuesday,
		Start:     "17:00",
		End:       "21:00",
	})
	require.NoError(t, err)

	listActor, listCurrent = "", true
	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Availability (1 windows)")
	assert.Contains(t, out, "Tuesday 17:00-21:00")

	fitActor, fitFrom, fitUntil = "", "", ""
	fitSlots = []string{"tuesday 18:00-20:00"}
	out, err = run(t, fitCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "All slots fit.")

	fitSlots = []string{"tuesday 16:30-18:00"}
	out, err = run(t, fitCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Not every slot fits.")

	matchActor, matchResource, matchFrom, matchUntil = "", "", "", ""
	out, err = run(t, matchCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No matching groups found.")

	tutorID := uuid.New()
	_, err = app.SaveTemplateHandler.Handle(ctx, commands.SaveTemplateCommand{
		Name:       "Tuesday evening group",
		ResourceID: tutorID,
		Slots:      []domain.SlotSpec{{Weekday: domain.Tuesday, Start: "18:00", End: "20:00"}},
	})
	require.NoError(t, err)

	matchResource = tutorID.String()
	out, err = run(t, matchCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Tuesday evening group")
	assert.Contains(t, out, "Tuesday 18:00-20:00 (120m)")
}

func TestCommands_NotConnected(t *testing.T) {
	cli.SetApp(nil)
	for _, cmd := range []*cobra.Command{addCmd, toggleCmd, listCmd, fitCmd, matchCmd} {
		_, err := run(t, cmd)
		assert.ErrorIs(t, err, cli.ErrNotConnected, cmd.Name())
	}
}
