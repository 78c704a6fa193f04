package availability

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	matchActor    string
	matchResource string
	matchFrom     string
	matchUntil    string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find groups whose every slot fits an actor's availability",
	Long: `List the active group templates a student could join: every slot of the
group must fit inside one of the student's windows.

Examples:
  academia availability match
  academia availability match --resource <tutor-id> --from 2024-03-01 --until 2024-06-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.FindMatchingGroupsHandler == nil {
			return cli.ErrNotConnected
		}

		actorID, err := app.ResolveActor(matchActor)
		if err != nil {
			return err
		}
		var resourceID uuid.UUID
		if matchResource != "" {
			resourceID, err = uuid.Parse(matchResource)
			if err != nil {
				return fmt.Errorf("invalid resource ID: %w", err)
			}
		}
		from, err := cli.ParseDate(matchFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(matchUntil)
		if err != nil {
			return err
		}

		groups, err := app.FindMatchingGroupsHandler.Handle(cmd.Context(), queries.FindMatchingGroupsQuery{
			ActorID:    actorID,
			ResourceID: resourceID,
			From:       from,
			Until:      until,
		})
		if err != nil {
			return fmt.Errorf("failed to match groups: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "No matching groups found.")
			return nil
		}

		fmt.Fprintf(out, "Matching groups (%d)\n", len(groups))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, g := range groups {
			fmt.Fprintf(out, "  %s (%s)\n", g.Name, g.ID)
			for _, s := range g.Slots {
				fmt.Fprintf(out, "    %s\n", cli.FormatSlot(s, app.Language))
			}
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchActor, "actor", "", "actor ID (default: ACADEMIA_ACTOR_ID)")
	matchCmd.Flags().StringVar(&matchResource, "resource", "", "only groups led by this resource")
	matchCmd.Flags().StringVar(&matchFrom, "from", "", "start of the period to match (YYYY-MM-DD)")
	matchCmd.Flags().StringVar(&matchUntil, "until", "", "end of the period to match (YYYY-MM-DD)")
}
