package availability

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	addActor string
	addKind  string
	addDay   string
	addDate  string
	addStart string
	addEnd   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Declare an availability window",
	Long: `Declare a window of free time. Use --day for a window that repeats every
week, or --date for a single occasion.

Examples:
  academia availability add --day tuesday --start 17:00 --end 21:00
  academia availability add --day martes --start 17:00 --end 21:00 --kind tutor
  academia availability add --date 2024-03-12 --start 09:00 --end 12:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddWindowHandler == nil {
			return cli.ErrNotConnected
		}

		actorID, err := app.ResolveActor(addActor)
		if err != nil {
			return err
		}
		kind, err := parseActorKind(addKind)
		if err != nil {
			return err
		}
		if (addDay == "") == (addDate == "") {
			return fmt.Errorf("exactly one of --day or --date is required")
		}

		var weekday domain.Weekday
		if addDay != "" {
			weekday, err = vocab.ParseWeekday(addDay)
			if err != nil {
				return err
			}
		}
		date, err := cli.ParseDate(addDate)
		if err != nil {
			return err
		}

		result, err := app.AddWindowHandler.Handle(cmd.Context(), commands.AddWindowCommand{
			ActorID:   actorID,
			ActorKind: kind,
			Weekday:   weekday,
			Date:      date,
			Start:     addStart,
			End:       addEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to add window: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.Recurring {
			fmt.Fprintf(out, "Added weekly window: %s %s-%s\n", vocab.Label(weekday, app.Language), addStart, addEnd)
		} else {
			fmt.Fprintf(out, "Added one-off window: %s %s-%s\n", date.Format(domain.DateLayout), addStart, addEnd)
		}
		fmt.Fprintf(out, "  Window ID: %s\n", result.WindowID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addActor, "actor", "", "actor ID (default: ACADEMIA_ACTOR_ID)")
	addCmd.Flags().StringVar(&addKind, "kind", "student", "actor kind (student, tutor)")
	addCmd.Flags().StringVarP(&addDay, "day", "d", "", "weekday for a weekly window (English or Spanish)")
	addCmd.Flags().StringVar(&addDate, "date", "", "date for a one-off window (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time (HH:MM, required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time (HH:MM, required)")

	addCmd.MarkFlagRequired("start")
	addCmd.MarkFlagRequired("end")
}
