package session

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	listFrom  string
	listUntil string
)

var listCmd = &cobra.Command{
	Use:     "list <template-id>",
	Short:   "List the sessions a template expanded into",
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListSessionsHandler == nil {
			return cli.ErrNotConnected
		}

		templateID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template ID: %w", err)
		}
		from, err := cli.ParseDate(listFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(listUntil)
		if err != nil {
			return err
		}

		sessions, err := app.ListSessionsHandler.Handle(cmd.Context(), queries.ListSessionsQuery{
			TemplateID: templateID,
			From:       from,
			Until:      until,
		})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions.")
			return nil
		}
		fmt.Fprintf(out, "Sessions (%d)\n", len(sessions))
		for _, s := range sessions {
			fmt.Fprintf(out, "  %s %-10s %s-%s\n",
				s.Date.Format(domain.DateLayout),
				vocab.Label(domain.WeekdayOf(s.Date), app.Language),
				s.Start, s.End,
			)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "first date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "last date (YYYY-MM-DD)")
}
