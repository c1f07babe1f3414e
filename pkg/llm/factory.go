package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewFromConfig creates the generation client named by the provider field.
func NewFromConfig(cfg *Config, logger *zap.Logger) (LLMClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewEmbedderFromConfig creates the client the semantic cache embeds
// through. The OpenAI provider reuses the generation client unless an
// embedding endpoint or key override is set; Anthropic has no embedding
// API, so it always gets a separate OpenAI-compatible embedding client.
func NewEmbedderFromConfig(cfg *Config, generator LLMClient, logger *zap.Logger) (LLMClient, error) {
	openaiProvider := cfg.Provider == "" || strings.EqualFold(cfg.Provider, "openai")
	if openaiProvider && cfg.EmbeddingEndpoint == "" && cfg.EmbeddingAPIKey == "" {
		return generator, nil
	}

	apiKey := cfg.EmbeddingAPIKey
	if apiKey == "" && openaiProvider {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("embedding api key is required for provider %q", cfg.Provider)
	}

	model := cfg.EmbeddingModel
	if model == "" {
		model = "text-embedding-3-small"
	}

	return NewClient(&Config{
		Endpoint: cfg.EmbeddingEndpoint,
		Model:    model,
		APIKey:   apiKey,
	}, logger)
}
