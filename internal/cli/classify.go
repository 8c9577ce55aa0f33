package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sohailkhan2204/detectscam/internal/classifier"
)

var classifyIndicators string

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyIndicators, "indicators", "", "Path to indicator phrase YAML")
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify transcript text for fraud indicators",
	Long:  "Runs the lexical classifier over the given text (or stdin) and prints the result as JSON.\nExits non-zero when no indicator matches.",
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	text := strings.Join(args, " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to classify")
	}

	phrases, err := classifier.LoadPhrases(classifyIndicators)
	if err != nil {
		return fmt.Errorf("failed to load indicators: %w", err)
	}

	res, ok := classifier.New(phrases).Classify(text)
	if !ok {
		fmt.Fprintln(os.Stderr, "no fraud indicators matched")
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(map[string]any{
		"indicators": res.Indicators,
		"severity":   res.Severity,
		"confidence": res.Confidence,
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}
