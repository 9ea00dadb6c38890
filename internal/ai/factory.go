package ai

import (
	"context"
	"fmt"
)

// NewFromConfig creates the configured Composer.
func NewFromConfig(ctx context.Context, cfg Config) (Composer, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, WithOpenAIModel(cfg.Model))
	case ProviderGoogle:
		return NewGoogle(ctx, cfg.APIKey, WithGoogleModel(cfg.Model))
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderNotSupported, cfg.Provider)
	}
}
