// Package session holds the commands for booked and expanded sessions.
package session

import (
	"github.com/spf13/cobra"
)

// Cmd is the session command group
var Cmd = &cobra.Command{
	Use:     "session",
	Short:   "Record and list sessions",
	Long:    `Record one-to-one sessions that templates must not clash with, and list the sessions a template expanded into.`,
	Aliases: []string{"sessions", "sesion"},
}

func init() {
	Cmd.AddCommand(recordCmd)
	Cmd.AddCommand(listCmd)
}
