// Package availability holds the commands that edit and query free time.
package availability

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

// Cmd is the availability command group
var Cmd = &cobra.Command{
	Use:     "availability",
	Short:   "Manage when students and tutors are free",
	Long:    `Declare, toggle and list availability windows, and check whether groups fit them.`,
	Aliases: []string{"avail", "disponibilidad"},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(toggleCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(fitCmd)
	Cmd.AddCommand(matchCmd)
}

func parseActorKind(value string) (domain.ActorKind, error) {
	kind := domain.ActorKind(strings.ToLower(strings.TrimSpace(value)))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid actor kind: %s (valid: student, tutor)", value)
	}
	return kind, nil
}
