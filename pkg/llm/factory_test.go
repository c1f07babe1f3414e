package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig(t *testing.T) {
	logger := zap.NewNop()

	t.Run("default provider is openai", func(t *testing.T) {
		client, err := NewFromConfig(&Config{Model: "gpt-4o", APIKey: "k"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &Client{}, client)
	})

	t.Run("anthropic provider", func(t *testing.T) {
		client, err := NewFromConfig(&Config{Provider: "anthropic", Model: "claude-sonnet-4-0", APIKey: "k"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, client)
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		_, err := NewFromConfig(&Config{Provider: "cohere", Model: "m", APIKey: "k"}, logger)
		assert.Error(t, err)
	})
}

func TestNewEmbedderFromConfig(t *testing.T) {
	logger := zap.NewNop()

	t.Run("openai provider reuses the generation client", func(t *testing.T) {
		cfg := &Config{Provider: "openai", Model: "gpt-4o", APIKey: "k"}
		generator, err := NewFromConfig(cfg, logger)
		require.NoError(t, err)

		embedder, err := NewEmbedderFromConfig(cfg, generator, logger)
		require.NoError(t, err)
		assert.Same(t, generator, embedder)
	})

	t.Run("anthropic provider gets a dedicated embedding client", func(t *testing.T) {
		cfg := &Config{
			Provider:        "anthropic",
			Model:           "claude-sonnet-4-0",
			APIKey:          "anthropic-key",
			EmbeddingAPIKey: "openai-key",
		}
		generator, err := NewFromConfig(cfg, logger)
		require.NoError(t, err)

		embedder, err := NewEmbedderFromConfig(cfg, generator, logger)
		require.NoError(t, err)
		require.IsType(t, &Client{}, embedder)
		assert.NotSame(t, generator, embedder)
	})

	t.Run("anthropic without an embedding key fails", func(t *testing.T) {
		cfg := &Config{Provider: "anthropic", Model: "claude-sonnet-4-0", APIKey: "k"}
		generator, err := NewFromConfig(cfg, logger)
		require.NoError(t, err)

		_, err = NewEmbedderFromConfig(cfg, generator, logger)
		assert.Error(t, err)
	})

	t.Run("embedding endpoint override splits the openai clients", func(t *testing.T) {
		cfg := &Config{
			Provider:          "openai",
			Model:             "gpt-4o",
			APIKey:            "k",
			EmbeddingEndpoint: "https://embeddings.internal/v1",
		}
		generator, err := NewFromConfig(cfg, logger)
		require.NoError(t, err)

		embedder, err := NewEmbedderFromConfig(cfg, generator, logger)
		require.NoError(t, err)
		require.IsType(t, &Client{}, embedder)
		assert.NotSame(t, generator, embedder)
		assert.Equal(t, "https://embeddings.internal/v1", embedder.GetEndpoint())
	})
}
