package model

import "time"

// Config is the complete claimsift configuration
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
}

// LLMConfig holds language-model provider configuration
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// EmbedModel is the embeddings model used by the knowledge store
	EmbedModel string `yaml:"embed_model" mapstructure:"embed_model"`

	// APIKey for OpenAI/Anthropic (usually from environment)
	APIKey string `yaml:"-" mapstructure:"-"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout for API requests, in seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig holds web-search provider configuration
type SearchConfig struct {
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxResults    int           `yaml:"max_results" mapstructure:"max_results"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`

	// RequestsPerSecond caps calls to the search host
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig holds durable cache configuration
type CacheConfig struct {
	Dir string        `yaml:"dir" mapstructure:"dir"`
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// StoreErrors controls whether Error verdicts are written to the verdict
	// cache. Caching them prevents repeated failing retries within the TTL
	// window, at the cost of masking transient provider hiccups.
	StoreErrors bool `yaml:"store_errors" mapstructure:"store_errors"`
}

// KnowledgeConfig holds knowledge-store configuration
type KnowledgeConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	ChunkSize    int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
}

// HistoryConfig holds run-history configuration
type HistoryConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	MaxEntries int    `yaml:"max_entries" mapstructure:"max_entries"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:   "openai",
			Model:      "",
			EmbedModel: "",
			Timeout:    60,
			MaxTokens:  2000,
		},
		Search: SearchConfig{
			UserAgent:         "claimsift/0.1 (+https://github.com/claimsift/claimsift)",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      2_000_000,
			MaxResults:        8,
			RespectRobots:     true,
			RequestsPerSecond: 1,
		},
		Cache: CacheConfig{
			Dir:         "./cache_data",
			TTL:         24 * time.Hour,
			StoreErrors: true,
		},
		Knowledge: KnowledgeConfig{
			Dir:          "./knowledge_db",
			ChunkSize:    200,
			ChunkOverlap: 20,
		},
		History: HistoryConfig{
			Path:       "./claimsift_history.json",
			MaxEntries: 50,
		},
	}
}
