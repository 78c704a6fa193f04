package session

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	internalApp "github.com/felixgeelhaar/academia/internal/app"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
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
	cli.SetApp(cliApp)
	t.Cleanup(func() { cli.SetApp(nil) })
	return cliApp
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestRecordCmd(t *testing.T) {
	setupLocalModeTestApp(t)

	recordResource = uuid.NewString()
	recordName, recordDate, recordStart, recordEnd = "Ana", "2024-03-12", "18:30", "19:30"
	out, err := run(t, recordCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded session: Ana 2024-03-12 18:30-19:30")

	recordStart, recordEnd = "19:30", "18:30"
	_, err = run(t, recordCmd)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	recordStart, recordEnd, recordDate = "18:30", "19:30", ""
	_, err = run(t, recordCmd)
	assert.ErrorContains(t, err, "--date is required")

	recordResource = "tutor"
	_, err = run(t, recordCmd)
	assert.ErrorContains(t, err, "invalid resource ID")
}

func TestListCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	app.SetLanguage(vocab.Spanish)
	ctx := context.Background()

	saved, err := app.SaveTemplateHandler.Handle(ctx, commands.SaveTemplateCommand{
		Name:       "Química",
		ResourceID: uuid.New(),
		Slots:      []domain.SlotSpec{{Weekday: domain.Thursday, Start: "17:00", End: "18:30"}},
	})
	require.NoError(t, err)

	listFrom, listUntil = "", ""
	out, err := run(t, listCmd, saved.TemplateID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions.")

	_, err = app.ExpandTemplateHandler.Handle(ctx, commands.ExpandTemplateCommand{
		TemplateID: saved.TemplateID,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	out, err = run(t, listCmd, saved.TemplateID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (2)")
	assert.Contains(t, out, "2024-03-07 Jueves")
	assert.Contains(t, out, "2024-03-14 Jueves")
	assert.Contains(t, out, "17:00-18:30")

	listFrom, listUntil = "2024-03-10", "2024-03-31"
	out, err = run(t, listCmd, saved.TemplateID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (1)")

	_, err = run(t, listCmd, "nope")
	assert.ErrorContains(t, err, "invalid template ID")
}

func TestCommands_NotConnected(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t, recordCmd)
	assert.ErrorIs(t, err, cli.ErrNotConnected)
	_, err = run(t, listCmd, uuid.NewString())
	assert.ErrorIs(t, err, cli.ErrNotConnected)
}
