package llm

import (
	"context"

	"github.com/claimsift/claimsift/internal/model"
)

// Provider defines the interface for LLM providers.
// All structure in responses is enforced by the caller's parsing logic,
// never by the provider.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a completion for the given prompt
	Complete(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder produces vector embeddings for semantic search
type Embedder interface {
	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// EmbedModel is the embeddings model (provider-specific)
	EmbedModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		EmbedModel: mc.EmbedModel,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
	}
}
