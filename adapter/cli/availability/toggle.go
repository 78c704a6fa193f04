package availability

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	toggleActor string
	toggleKind  string
	toggleDay   string
	toggleHour  int
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip one hour of the weekly grid",
	Long: `Switch a one-hour cell of the weekly availability grid on or off.
Running the same toggle twice restores the original state.

Examples:
  academia availability toggle --day lunes --hour 18
  academia availability toggle --day friday --hour 9 --kind tutor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ToggleCellHandler == nil {
			return cli.ErrNotConnected
		}

		actorID, err := app.ResolveActor(toggleActor)
		if err != nil {
			return err
		}
		kind, err := parseActorKind(toggleKind)
		if err != nil {
			return err
		}
		weekday, err := vocab.ParseWeekday(toggleDay)
		if err != nil {
			return err
		}

		result, err := app.ToggleCellHandler.Handle(cmd.Context(), commands.ToggleCellCommand{
			ActorID:   actorID,
			ActorKind: kind,
			Weekday:   weekday,
			Hour:      toggleHour,
		})
		if err != nil {
			return fmt.Errorf("failed to toggle cell: %w", err)
		}

		state := "free"
		if !result.Available {
			state = "busy"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %02d:00 is now %s\n", vocab.Label(weekday, app.Language), toggleHour, state)
		return nil
	},
}

func init() {
	toggleCmd.Flags().StringVar(&toggleActor, "actor", "", "actor ID (default: ACADEMIA_ACTOR_ID)")
	toggleCmd.Flags().StringVar(&toggleKind, "kind", "student", "actor kind (student, tutor)")
	toggleCmd.Flags().StringVarP(&toggleDay, "day", "d", "", "weekday (English or Spanish, required)")
	toggleCmd.Flags().IntVar(&toggleHour, "hour", -1, "hour of the day, 0-23 (required)")

	toggleCmd.MarkFlagRequired("day")
	toggleCmd.MarkFlagRequired("hour")
}
