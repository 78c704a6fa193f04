package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var (
	listActor   string
	listCurrent bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List availability windows",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListAvailabilityHandler == nil {
			return cli.ErrNotConnected
		}

		actorID, err := app.ResolveActor(listActor)
		if err != nil {
			return err
		}

		windows, err := app.ListAvailabilityHandler.Handle(cmd.Context(), queries.ListAvailabilityQuery{
			ActorID:     actorID,
			CurrentOnly: listCurrent,
			Today:       time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to list availability: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(windows) == 0 {
			fmt.Fprintln(out, "No availability declared.")
			return nil
		}

		fmt.Fprintf(out, "Availability (%d windows)\n", len(windows))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, w := range windows {
			fmt.Fprintf(out, "  %-32s %s\n", cli.FormatWindow(w, app.Language), w.ID)
			if cli.Verbose() {
				fmt.Fprintf(out, "    kind: %s, %d minutes\n", w.ActorKind, w.DurationMin)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listActor, "actor", "", "actor ID (default: ACADEMIA_ACTOR_ID)")
	listCmd.Flags().BoolVar(&listCurrent, "current", false, "hide one-off windows that already passed")
}
