package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "detectscam",
	Short: "Real-time fraud alerting for voice calls",
	Long:  "Ingests call transcripts and tool invocations from a voice-call platform, classifies them for fraud indicators, and fans out alerts to WebSocket subscribers with replay and liveness eviction.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
