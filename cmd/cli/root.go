package cli

import (
	"fmt"
	"os"

	"mail-calendar-agent/pkg/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mail-calendar-agent",
	Short: "Mail Calendar AI Agent",
	Long:  "Reads recent Gmail messages, analyzes them with an LLM and creates Google Calendar events for detected deadlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	return config.Load()
}
