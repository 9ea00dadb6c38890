package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Google model constants.
const (
	GoogleGeminiFlash = "gemini-2.0-flash"
	GoogleGeminiPro   = "gemini-2.5-pro"
)

// Google implements the Composer interface using Google's Generative AI API.
type Google struct {
	client *genai.Client
	model  string
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		if model != "" {
			g.model = model
		}
	}
}

// NewGoogle creates a new Google composer with Gemini API and API key
// authentication.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Google{
		model: GoogleGeminiFlash,
	}

	for _, opt := range opts {
		opt(g)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	g.client = client

	return g, nil
}

// Complete returns the model's generated text for the prompt.
func (g *Google) Complete(ctx context.Context, system, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", errors.Join(ErrUpstreamUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
