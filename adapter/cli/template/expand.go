package template

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	expandFrom    string
	expandUntil   string
	expandPublish bool
)

var expandCmd = &cobra.Command{
	Use:   "expand <template-id>",
	Short: "Expand a template into dated sessions",
	Long: `Produce one session per slot for every matching date in the range. Sessions
that an earlier expansion already stored are not stored twice.

Examples:
  academia template expand <template-id> --from 2024-03-01 --until 2024-03-31
  academia template expand <template-id> --from 2024-03-01 --until 2024-06-30 --publish`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ExpandTemplateHandler == nil {
			return cli.ErrNotConnected
		}

		templateID, err := parseTemplateID(args[0])
		if err != nil {
			return err
		}
		from, err := cli.ParseDate(expandFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(expandUntil)
		if err != nil {
			return err
		}
		actorID, _ := app.ResolveActor("")

		result, err := app.ExpandTemplateHandler.Handle(cmd.Context(), commands.ExpandTemplateCommand{
			TemplateID: templateID,
			ActorID:    actorID,
			StartDate:  from,
			EndDate:    until,
			Publish:    expandPublish,
		})
		if err != nil {
			return fmt.Errorf("failed to expand template: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Expanded %d sessions (%d new)\n", len(result.Sessions), result.Stored)
		if cli.Verbose() {
			for _, s := range result.Sessions {
				fmt.Fprintf(out, "  %s %s %s-%s\n",
					s.Date.Format(domain.DateLayout),
					vocab.Label(domain.WeekdayOf(s.Date), app.Language),
					s.Start, s.End,
				)
			}
		}
		if expandPublish {
			fmt.Fprintf(out, "Published %d sessions to the calendar\n", result.Published)
			if result.PublishError != "" {
				fmt.Fprintf(out, "  Warning: %s\n", result.PublishError)
			}
		}
		return nil
	},
}

func init() {
	expandCmd.Flags().StringVar(&expandFrom, "from", "", "first date (YYYY-MM-DD, required)")
	expandCmd.Flags().StringVar(&expandUntil, "until", "", "last date (YYYY-MM-DD, required)")
	expandCmd.Flags().BoolVar(&expandPublish, "publish", false, "also write the sessions to the CalDAV calendar")

	expandCmd.MarkFlagRequired("from")
	expandCmd.MarkFlagRequired("until")
}
