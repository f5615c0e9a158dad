package cli

import (
	"fmt"

	"github.com/claimsift/claimsift/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently verified claims",
	Long: `History lists the most recent verification runs with their
verdicts, confidence scores, and processing times.

Example:
  claimsift history
  claimsift history --limit 10`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show only the newest N entries (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("history.path")
	if path == "" {
		path = "./claimsift_history.json"
	}
	maxEntries := viper.GetInt("history.max_entries")
	if maxEntries <= 0 {
		maxEntries = 50
	}

	entries := history.Open(path, maxEntries).Entries()
	if len(entries) == 0 {
		fmt.Println("No verification history yet.")
		return nil
	}

	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	// Newest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Printf("%s  %s (%d/100)  %.1fs\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			e.Verdict.Verdict,
			e.Verdict.ConfidenceScore,
			e.ProcessingTime.Seconds())
		fmt.Printf("  %s\n", e.Claim)
	}

	return nil
}
