package availability

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var (
	fitActor string
	fitSlots []string
	fitFrom  string
	fitUntil string
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Check whether slots fit inside an actor's free time",
	Long: `Check each slot against the actor's availability. A slot fits only when a
single window contains it from start to end; touching the window's edges is fine,
sticking out of it is not.

Examples:
  academia availability fit --slot "tuesday 18:00-20:00"
  academia availability fit --slot "martes 18:00" --slot "jueves 18:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CheckFitHandler == nil {
			return cli.ErrNotConnected
		}

		actorID, err := app.ResolveActor(fitActor)
		if err != nil {
			return err
		}
		specs, err := cli.ParseSlotSpecs(fitSlots)
		if err != nil {
			return err
		}
		from, err := cli.ParseDate(fitFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(fitUntil)
		if err != nil {
			return err
		}

		result, err := app.CheckFitHandler.Handle(cmd.Context(), queries.CheckFitQuery{
			ActorID: actorID,
			Slots:   specs,
			From:    from,
			Until:   until,
		})
		if err != nil {
			return fmt.Errorf("failed to check fit: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, s := range result.Slots {
			mark := "fits"
			if !s.Fits {
				mark = "does not fit"
			}
			fmt.Fprintf(out, "  %-28s %s\n", cli.FormatSlot(s.Slot, app.Language), mark)
		}
		if result.Fits {
			fmt.Fprintln(out, "All slots fit.")
		} else {
			fmt.Fprintln(out, "Not every slot fits.")
		}
		return nil
	},
}

func init() {
	fitCmd.Flags().StringVar(&fitActor, "actor", "", "actor ID (default: ACADEMIA_ACTOR_ID)")
	fitCmd.Flags().StringArrayVar(&fitSlots, "slot", nil, `slot as "<weekday> HH:MM[-HH:MM]" (repeatable, required)`)
	fitCmd.Flags().StringVar(&fitFrom, "from", "", "first date one-off windows may fall on (YYYY-MM-DD)")
	fitCmd.Flags().StringVar(&fitUntil, "until", "", "last date one-off windows may fall on (YYYY-MM-DD)")

	fitCmd.MarkFlagRequired("slot")
}
