package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/extract"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	llmProvider   string
	llmModel      string
	checkTimeout  time.Duration
	cacheDir      string
	noStoreErrors bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [claim]",
	Short: "Verify a factual claim",
	Long: `Check verifies a single factual claim:
- Decompose the claim into targeted search queries
- Gather evidence from the web (cached for 24 hours)
- Score the reliability of each evidence source
- Consult the local knowledge base
- Synthesize a structured verdict with confidence and explanation

With no argument, check starts an interactive prompt loop.

Example:
  claimsift check "The Eiffel Tower is in Paris"
  claimsift check --provider ollama "Water boils at 100 degrees Celsius"
  claimsift check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default if empty)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall timeout per claim")
	checkCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: ./cache_data)")
	checkCmd.Flags().BoolVar(&noStoreErrors, "no-store-errors", false, "do not cache Error verdicts (retry failed claims immediately)")
}

// buildConfig merges defaults, config file, flags, and API key env vars
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if noStoreErrors {
		cfg.Cache.StoreErrors = false
	}

	// Get API key from environment
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	if len(args) == 1 {
		return checkOne(p, args[0])
	}
	return checkInteractive(p)
}

// checkOne verifies a single claim and prints the full report
func checkOne(p *pipeline.Pipeline, claim string) error {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return fmt.Errorf("empty claim")
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", checkTimeout)
	}

	result, err := p.Process(ctx, claim)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		if entities := extract.Entities(result.Analysis, 5); len(entities) > 0 {
			fmt.Fprintf(os.Stderr, "Key entities: %s\n", strings.Join(entities, ", "))
		}
	}

	printResult(result)
	return nil
}

// checkInteractive reads claims from stdin until 'quit'
func checkInteractive(p *pipeline.Pipeline) error {
	fmt.Println("Claimsift interactive fact-checker")
	fmt.Println("-----------------------------------------------------------------")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter a claim to fact-check (or 'quit' to exit): \n> ")
		if !scanner.Scan() {
			break
		}
		claim := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(claim, "quit") {
			break
		}
		if claim == "" {
			fmt.Println("Please enter a claim.")
			continue
		}

		fmt.Println("\nProcessing claim, please wait...")

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		result, err := p.Process(ctx, claim)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n--- An error occurred while processing the claim: %v ---\n", err)
			continue
		}

		printResult(result)
		fmt.Println("\n-----------------------------------------------------------------")
	}
	return scanner.Err()
}

// printResult renders one verification result in full
func printResult(result *model.Result) {
	fmt.Println("\n======= CLAIM ANALYSIS =======")
	fmt.Println(result.Analysis)

	fmt.Println("\n======= EVIDENCE COLLECTED (Snippets) =======")
	evidence := result.Evidence
	if len(evidence) > 1000 {
		evidence = evidence[:1000] + "\n... (evidence truncated for display)"
	}
	fmt.Println(evidence)

	fmt.Println("\n======= VERDICT =======")
	v := result.Verdict
	fmt.Printf("VERDICT: %s\n", v.Verdict)
	fmt.Printf("CONFIDENCE: %d/100\n", v.ConfidenceScore)
	fmt.Printf("CONFIDENCE REASONING: %s\n", v.ConfidenceReasoning)
	fmt.Printf("\nEXPLANATION:\n%s\n", v.Explanation)

	if len(v.KeyEvidencePoints) > 0 {
		fmt.Println("\nKEY EVIDENCE POINTS:")
		for _, point := range v.KeyEvidencePoints {
			fmt.Printf("- %s\n", point)
		}
	}

	if len(v.SupportingSources) > 0 {
		fmt.Println("\nSUPPORTING SOURCES DOMAINS:")
		for _, domain := range v.SupportingSources {
			fmt.Printf("- %s\n", domain)
		}
	}

	if len(v.ContradictingEvidence) > 0 {
		fmt.Println("\nCONTRADICTING EVIDENCE POINTS:")
		for _, point := range v.ContradictingEvidence {
			fmt.Printf("- %s\n", point)
		}
	}

	if v.KnowledgeBaseRelevance != "" {
		fmt.Printf("\nKNOWLEDGE BASE RELEVANCE:\n%s\n", v.KnowledgeBaseRelevance)
	}
}
