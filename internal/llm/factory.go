package llm

import (
	"fmt"
	"os"
	"strings"
)

// NewProvider creates a new LLM provider based on configuration.
// A provider is required for claim processing: an empty or unknown provider
// name is a configuration error, raised immediately rather than retried.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, fmt.Errorf("no LLM provider configured (supported: openai, anthropic, ollama)")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewEmbedder creates an embeddings client for the configured provider.
// Anthropic has no embeddings API; when it is the selected provider the
// embedder falls back to OpenAI if OPENAI_API_KEY is set, otherwise a nil
// embedder is returned and knowledge-store features degrade to empty results.
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "anthropic", "claude":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			fmt.Fprintf(os.Stderr, "Warning: anthropic has no embeddings API and OPENAI_API_KEY is not set; knowledge base disabled\n")
			return nil, nil
		}
		fallback := config
		fallback.Provider = "openai"
		fallback.APIKey = key
		fallback.BaseURL = ""
		return NewOpenAIProvider(fallback)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
