package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report which scheduling handlers are wired",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return ErrNotConnected
		}
		out := cmd.OutOrStdout()
		if missing := app.MissingHandlers(); len(missing) > 0 {
			fmt.Fprintf(out, "degraded: missing %s\n", strings.Join(missing, ", "))
			return nil
		}
		fmt.Fprintln(out, "ok")
		if app.CurrentActorID != uuid.Nil {
			fmt.Fprintf(out, "actor: %s\n", app.CurrentActorID)
		}
		fmt.Fprintf(out, "language: %s\n", app.Language)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
