package session

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/academia/adapter/cli"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	recordResource string
	recordName     string
	recordDate     string
	recordStart    string
	recordEnd      string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a one-to-one session",
	Long: `Record an individual session booked with a tutor or room. Recorded sessions
block templates that overlap them.

Example:
  academia session record --resource <tutor-id> --name "Ana" --date 2024-03-12 --start 18:30 --end 19:30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordSessionHandler == nil {
			return cli.ErrNotConnected
		}

		resourceID, err := uuid.Parse(recordResource)
		if err != nil {
			return fmt.Errorf("invalid resource ID: %w", err)
		}
		date, err := cli.ParseDate(recordDate)
		if err != nil {
			return err
		}
		if date.IsZero() {
			return errors.New("--date is required")
		}

		result, err := app.RecordSessionHandler.Handle(cmd.Context(), commands.RecordSessionCommand{
			ResourceID: resourceID,
			Name:       recordName,
			Date:       date,
			Start:      recordStart,
			End:        recordEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded session: %s %s %s-%s\n", recordName, recordDate, recordStart, recordEnd)
		fmt.Fprintf(cmd.OutOrStdout(), "  Session ID: %s\n", result.SessionID)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVarP(&recordResource, "resource", "r", "", "tutor or room ID (required)")
	recordCmd.Flags().StringVarP(&recordName, "name", "n", "", "student or session name")
	recordCmd.Flags().StringVar(&recordDate, "date", "", "session date (YYYY-MM-DD, required)")
	recordCmd.Flags().StringVar(&recordStart, "start", "", "start time (HH:MM, required)")
	recordCmd.Flags().StringVar(&recordEnd, "end", "", "end time (HH:MM, required)")

	recordCmd.MarkFlagRequired("resource")
	recordCmd.MarkFlagRequired("date")
	recordCmd.MarkFlagRequired("start")
	recordCmd.MarkFlagRequired("end")
}
