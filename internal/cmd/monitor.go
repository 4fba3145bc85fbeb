package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonbender-c3x/coedit/internal/tui"
)

var monitorAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor <session-id>",
	Short: "Watch a live session from the terminal",
	Long: `Monitor joins a session as a read-only guest and shows its
participants, turn state, file versions, and event feed.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorAddr, "addr", "127.0.0.1:8737", "server address (host:port)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	app, err := tui.New(monitorAddr, args[0])
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("monitor error: %w", err)
	}
	return nil
}
