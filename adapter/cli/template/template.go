// Package template holds the commands that manage recurring group templates.
package template

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the template command group
var Cmd = &cobra.Command{
	Use:     "template",
	Short:   "Manage recurring group templates",
	Long:    `Save weekly group templates, check them for conflicts and expand them into sessions.`,
	Aliases: []string{"group", "plantilla"},
}

func init() {
	Cmd.AddCommand(saveCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(expandCmd)
	Cmd.AddCommand(conflictsCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
}

func parseTemplateID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid template ID: %w", err)
	}
	return id, nil
}

// formatConflict renders one conflict line. Session conflicts carry their date;
// template conflicts recur on the weekday of the slot they hit.
func formatConflict(c queries.ConflictDTO, lang vocab.Language) string {
	when := ""
	if c.CandidateSlot != nil {
		when = vocab.Label(c.CandidateSlot.Weekday, lang)
	}
	if c.Date != nil {
		when = c.Date.Format(domain.DateLayout)
	}
	return fmt.Sprintf("%-18s %-24s %s %s-%s", c.Type, c.Name, when, c.Start, c.End)
}

func printConflicts(cmd *cobra.Command, conflicts []queries.ConflictDTO, lang vocab.Language) {
	out := cmd.OutOrStdout()
	for _, c := range conflicts {
		fmt.Fprintf(out, "  %s\n", formatConflict(c, lang))
	}
}
