// Package ai provides text completion clients for the guided-reflection and
// prayer features. A Composer turns a system instruction and a user prompt
// into a single text completion; implementations exist for OpenAI and Google
// Gemini, selected by configuration.
package ai

import "context"

// Composer generates a text completion for a prompt.
type Composer interface {
	// Complete returns the model's text response to prompt, steered by the
	// system instruction. The call is stateless; no conversation history is
	// kept between calls.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Provider names accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

// Config holds the completion provider environment settings.
type Config struct {
	Provider string `env:"AI_PROVIDER" envDefault:"openai"`
	APIKey   string `env:"AI_API_KEY,required"`
	Model    string `env:"AI_MODEL"`
}
