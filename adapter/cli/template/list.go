package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var listResource string

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List active templates",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTemplatesHandler == nil {
			return cli.ErrNotConnected
		}

		var resourceID uuid.UUID
		if listResource != "" {
			id, err := uuid.Parse(listResource)
			if err != nil {
				return fmt.Errorf("invalid resource ID: %w", err)
			}
			resourceID = id
		}

		templates, err := app.ListTemplatesHandler.Handle(cmd.Context(), queries.ListTemplatesQuery{ResourceID: resourceID})
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No active templates.")
			return nil
		}

		fmt.Fprintf(out, "Templates (%d)\n", len(templates))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, t := range templates {
			fmt.Fprintf(out, "%s  %s\n", t.Name, t.ID)
			for _, s := range t.Slots {
				fmt.Fprintf(out, "  %s\n", cli.FormatSlot(s, app.Language))
			}
			if cli.Verbose() {
				fmt.Fprintf(out, "  resource: %s\n", t.ResourceID)
				if t.ValidFrom != nil || t.ValidUntil != nil {
					fmt.Fprintf(out, "  valid: %s to %s\n", formatBound(t.ValidFrom), formatBound(t.ValidUntil))
				}
			}
		}
		return nil
	},
}

func formatBound(d *time.Time) string {
	if d == nil {
		return "open"
	}
	return d.Format(domain.DateLayout)
}

func init() {
	listCmd.Flags().StringVarP(&listResource, "resource", "r", "", "only templates of this tutor or room")
}
