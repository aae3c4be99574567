package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	agentdto "mail-calendar-agent/internal/agent/dto"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var processFlags struct {
	email     string
	maxEmails int
	timeRange string
	noEvents  bool
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one processing pass for a user and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(loadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		createEvents := !processFlags.noEvents
		result, err := app.agent.Process(ctx, agentdto.ProcessRequest{
			Email:                processFlags.email,
			MaxEmails:            processFlags.maxEmails,
			TimeRange:            processFlags.timeRange,
			CreateCalendarEvents: &createEvents,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processFlags.email, "email", "", "Authorized mailbox to process")
	processCmd.Flags().IntVar(&processFlags.maxEmails, "max", 0, "Maximum number of emails (default from AGENT_DEFAULT_MAX_EMAILS)")
	processCmd.Flags().StringVar(&processFlags.timeRange, "range", "", "Recency window such as 1d or 7d (default from AGENT_DEFAULT_TIME_RANGE)")
	processCmd.Flags().BoolVar(&processFlags.noEvents, "no-events", false, "Analyze only, do not create calendar events")
	_ = processCmd.MarkFlagRequired("email")
}
