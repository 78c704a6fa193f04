package template

import (
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate <template-id>",
	Short: "Activate a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:     "deactivate <template-id>",
	Short:   "Deactivate a template",
	Long:    `Inactive templates are ignored by conflict checks and group matching.`,
	Aliases: []string{"archive"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

func setActive(cmd *cobra.Command, rawID string, active bool) error {
	app := cli.GetApp()
	if app == nil || app.SetTemplateActiveHandler == nil {
		return cli.ErrNotConnected
	}

	templateID, err := parseTemplateID(rawID)
	if err != nil {
		return err
	}

	actorID, _ := app.ResolveActor("")
	if err := app.SetTemplateActiveHandler.Handle(cmd.Context(), commands.SetTemplateActiveCommand{
		TemplateID: templateID,
		ActorID:    actorID,
		Active:     active,
	}); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template %s %s\n", templateID, state)
	return nil
}
