package template

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var (
	conflictsFrom  string
	conflictsUntil string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <template-id>",
	Short: "Show bookings that overlap a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DetectConflictsHandler == nil {
			return cli.ErrNotConnected
		}

		templateID, err := parseTemplateID(args[0])
		if err != nil {
			return err
		}
		from, err := cli.ParseDate(conflictsFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(conflictsUntil)
		if err != nil {
			return err
		}

		conflicts, err := app.DetectConflictsHandler.Handle(cmd.Context(), queries.DetectConflictsQuery{
			TemplateID: templateID,
			From:       from,
			Until:      until,
		})
		if err != nil {
			return fmt.Errorf("failed to detect conflicts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(conflicts) == 0 {
			fmt.Fprintln(out, "No conflicts.")
			return nil
		}
		fmt.Fprintf(out, "Conflicts (%d)\n", len(conflicts))
		printConflicts(cmd, conflicts, app.Language)
		return nil
	},
}

func init() {
	conflictsCmd.Flags().StringVar(&conflictsFrom, "from", "", "first date to check (YYYY-MM-DD)")
	conflictsCmd.Flags().StringVar(&conflictsUntil, "until", "", "last date to check (YYYY-MM-DD)")
}
