package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI model constants.
const (
	OpenAIGPT4oMini = "gpt-4o-mini"
	OpenAIGPT4o     = "gpt-4o"
)

// OpenAI implements the Composer interface using OpenAI's chat completions.
type OpenAI struct {
	client openai.Client
	model  string
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.client = openai.NewClient(
				option.WithHTTPClient(client),
			)
		}
	}
}

// NewOpenAI creates a new OpenAI composer.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  OpenAIGPT4oMini,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Complete returns the model's chat completion for the prompt.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	})
	if err != nil {
		return "", errors.Join(ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
