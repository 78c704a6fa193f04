package template

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	saveID       string
	saveName     string
	saveResource string
	saveSlots    []string
	saveFrom     string
	saveUntil    string
	saveForce    bool
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a recurring group template",
	Long: `Save a weekly template for a tutor's group. The template is checked against
the tutor's booked sessions and other active templates first; conflicts block the
save unless --force is given.

Examples:
  academia template save --name "Algebra" --resource <tutor-id> --slot "tuesday 18:00-19:00"
  academia template save --name "Álgebra" --resource <tutor-id> --slot "martes 18:00" --slot "jueves 18:00"
  academia template save --id <template-id> --name "Algebra" --resource <tutor-id> --slot "monday 17:00" --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SaveTemplateHandler == nil {
			return cli.ErrNotConnected
		}

		resourceID, err := uuid.Parse(saveResource)
		if err != nil {
			return fmt.Errorf("invalid resource ID: %w", err)
		}
		var templateID uuid.UUID
		if saveID != "" {
			if templateID, err = parseTemplateID(saveID); err != nil {
				return err
			}
		}
		specs, err := cli.ParseSlotSpecs(saveSlots)
		if err != nil {
			return err
		}
		from, err := cli.ParseDate(saveFrom)
		if err != nil {
			return err
		}
		until, err := cli.ParseDate(saveUntil)
		if err != nil {
			return err
		}
		actorID, _ := app.ResolveActor("")

		result, err := app.SaveTemplateHandler.Handle(cmd.Context(), commands.SaveTemplateCommand{
			TemplateID: templateID,
			ActorID:    actorID,
			Name:       saveName,
			ResourceID: resourceID,
			Slots:      specs,
			ValidFrom:  from,
			ValidUntil: until,
			Force:      saveForce,
		})
		out := cmd.OutOrStdout()
		if errors.Is(err, domain.ErrTemplateConflicts) && result != nil {
			fmt.Fprintf(out, "Template not saved, %d conflicts:\n", len(result.Conflicts))
			printConflicts(cmd, queries.ConflictDTOs(result.Conflicts), app.Language)
			fmt.Fprintln(out, "Use --force to save anyway.")
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		fmt.Fprintf(out, "Saved template: %s\n", saveName)
		fmt.Fprintf(out, "  Template ID: %s\n", result.TemplateID)
		if len(result.Conflicts) > 0 {
			fmt.Fprintf(out, "  Saved despite %d conflicts:\n", len(result.Conflicts))
			printConflicts(cmd, queries.ConflictDTOs(result.Conflicts), app.Language)
		}
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVar(&saveID, "id", "", "ID of an existing template to replace")
	saveCmd.Flags().StringVarP(&saveName, "name", "n", "", "template name (required)")
	saveCmd.Flags().StringVarP(&saveResource, "resource", "r", "", "tutor or room ID (required)")
	saveCmd.Flags().StringArrayVar(&saveSlots, "slot", nil, `slot as "<weekday> HH:MM[-HH:MM]" (repeatable, required)`)
	saveCmd.Flags().StringVar(&saveFrom, "from", "", "first valid date (YYYY-MM-DD)")
	saveCmd.Flags().StringVar(&saveUntil, "until", "", "last valid date (YYYY-MM-DD)")
	saveCmd.Flags().BoolVarP(&saveForce, "force", "f", false, "save even when the template conflicts")

	saveCmd.MarkFlagRequired("name")
	saveCmd.MarkFlagRequired("resource")
	saveCmd.MarkFlagRequired("slot")
}
