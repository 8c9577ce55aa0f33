package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sohailkhan2204/detectscam/internal/intel"
)

var (
	intelDB    string
	intelLimit int
)

func init() {
	rootCmd.AddCommand(intelCmd)
	intelCmd.Flags().StringVarP(&intelDB, "db", "d", "", "Path to scam-intel SQLite archive (required)")
	intelCmd.Flags().IntVarP(&intelLimit, "limit", "n", 20, "Maximum captures to print")
	intelCmd.MarkFlagRequired("db")
}

var intelCmd = &cobra.Command{
	Use:   "intel",
	Short: "List archived scam-intel captures",
	RunE:  runIntel,
}

func runIntel(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := intel.Open(intelDB)
	if err != nil {
		return fmt.Errorf("failed to open intel archive: %w", err)
	}
	defer store.Close()

	captures, err := store.List(intelLimit)
	if err != nil {
		return fmt.Errorf("failed to list captures: %w", err)
	}
	if len(captures) == 0 {
		fmt.Println("no captures")
		return nil
	}

	for _, c := range captures {
		line, _ := json.Marshal(c)
		fmt.Println(string(line))
	}
	return nil
}
