package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/claimsift/claimsift/internal/knowledge"
	"github.com/claimsift/claimsift/internal/llm"
	"github.com/spf13/cobra"
)

var kbTopK int

// kbCmd groups knowledge-base maintenance commands
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the local knowledge base",
	Long: `Manage the local fact store consulted during verdict synthesis.

Facts are chunked, embedded, and stored in a file-backed vector index.
High-confidence verdicts are written here automatically; kb add and
kb query let you inspect and extend the store by hand.`,
}

var kbAddCmd = &cobra.Command{
	Use:   "add <fact>",
	Short: "Add a fact to the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fact := strings.TrimSpace(args[0])
		if fact == "" {
			return fmt.Errorf("empty fact")
		}

		ctx := context.Background()
		store, err := openKnowledge(ctx)
		if err != nil {
			return err
		}

		if err := store.Add(ctx, fact); err != nil {
			return fmt.Errorf("add fact: %w", err)
		}
		fmt.Printf("✓ Stored fact (%d entries total)\n", store.Len())
		return nil
	},
}

var kbQueryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Find facts relevant to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, err := openKnowledge(ctx)
		if err != nil {
			return err
		}

		facts, err := store.Query(ctx, args[0], kbTopK)
		if err != nil {
			return fmt.Errorf("query knowledge base: %w", err)
		}
		if len(facts) == 0 {
			fmt.Println("No relevant facts found.")
			return nil
		}

		for _, fact := range facts {
			fmt.Printf("- %s\n", fact)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbQueryCmd)

	kbQueryCmd.Flags().IntVarP(&kbTopK, "top", "k", 3, "number of facts to return")

	kbCmd.PersistentFlags().StringVar(&llmProvider, "provider", "openai", "LLM provider for embeddings (openai, anthropic, ollama)")
}

// openKnowledge builds a standalone knowledge store for maintenance
// commands, without the rest of the pipeline
func openKnowledge(ctx context.Context) (*knowledge.Store, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	embedder, err := llm.NewEmbedder(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		fmt.Fprintln(os.Stderr, "Warning: no embedder available; facts cannot be stored or queried")
	}

	store, err := knowledge.Open(ctx, cfg.Knowledge.Dir, embedder, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}
	return store, nil
}
