package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/pipeline"
	"github.com/spf13/cobra"
)

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file",
	Long: `Batch reads claims from a file (one per line, blank lines and
lines starting with # skipped) and verifies them one at a time.

Claims are processed sequentially so each verified conclusion is
available in the knowledge base before the next claim runs.

Example:
  claimsift batch claims.txt
  claimsift batch claims.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default if empty)")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: ./cache_data)")
	batchCmd.Flags().BoolVar(&noStoreErrors, "no-store-errors", false, "do not cache Error verdicts")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	claims, err := readClaims(file)
	if err != nil {
		return fmt.Errorf("read claims: %w", err)
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Verifying %d claims from %s\n\n", len(claims), file)

	successCount := 0
	errorCount := 0

	for i, claim := range claims {
		fmt.Printf("[%d/%d] %s\n", i+1, len(claims), claim)

		result, err := p.Process(ctx, claim)
		if err != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %v\n\n", err)
			continue
		}

		if result.Verdict.Verdict == model.VerdictError {
			errorCount++
		} else {
			successCount++
		}
		fmt.Printf("  %s (%d/100): %s\n\n",
			result.Verdict.Verdict, result.Verdict.ConfidenceScore, firstLine(result.Verdict.Explanation))
	}

	fmt.Fprintf(os.Stderr, "Done: %d verdicts, %d errors\n", successCount, errorCount)
	return nil
}

// readClaims loads non-empty, non-comment lines
func readClaims(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var claims []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	return claims, scanner.Err()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
