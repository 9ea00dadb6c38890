package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/ai"
)

func TestNewOpenAI(t *testing.T) {
	t.Parallel()

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		_, err := ai.NewOpenAI("")
		assert.ErrorIs(t, err, ai.ErrInvalidAPIKey)
	})

	t.Run("model option", func(t *testing.T) {
		t.Parallel()

		c, err := ai.NewOpenAI("sk-test", ai.WithOpenAIModel(ai.OpenAIGPT4o))
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("openai", func(t *testing.T) {
		t.Parallel()

		c, err := ai.NewFromConfig(context.Background(), ai.Config{
			Provider: ai.ProviderOpenAI,
			APIKey:   "sk-test",
		})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		_, err := ai.NewFromConfig(context.Background(), ai.Config{
			Provider: "anthropic",
			APIKey:   "key",
		})
		assert.ErrorIs(t, err, ai.ErrProviderNotSupported)
	})
}
