package availability

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <window-id>",
	Short:   "Remove an availability window",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RemoveWindowHandler == nil {
			return cli.ErrNotConnected
		}

		windowID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid window ID: %w", err)
		}

		if err := app.RemoveWindowHandler.Handle(cmd.Context(), commands.RemoveWindowCommand{WindowID: windowID}); err != nil {
			return fmt.Errorf("failed to remove window: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed window %s\n", windowID)
		return nil
	},
}
