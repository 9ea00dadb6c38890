package httpapi

import (
	"errors"
	"strings"

	"github.com/quiethour/quiethour/internal/ai"
	"github.com/quiethour/quiethour/internal/binder"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

// System instructions for the two completion proxies.
const (
	reflectionSystemPrompt = "You are a thoughtful devotional companion. " +
		"Given a scripture passage and a reader's reflection, respond with a short, " +
		"encouraging meditation grounded in the passage. Keep it under 150 words."
	prayerSystemPrompt = "You are a thoughtful devotional companion. " +
		"Given a scripture passage and the reader's concerns, compose a short, " +
		"sincere prayer. Keep it under 120 words."
)

const maxPromptLength = 4000

type aiHandlers struct {
	composer ai.Composer
}

type completionRequest struct {
	Prompt string `json:"prompt"`
}

func (h *aiHandlers) reflection(ctx *router.Context) handler.Response {
	return h.complete(ctx, reflectionSystemPrompt)
}

func (h *aiHandlers) prayer(ctx *router.Context) handler.Response {
	return h.complete(ctx, prayerSystemPrompt)
}

// complete proxies a single prompt to the completion provider. The proxy is
// stateless: no conversation history is kept server-side.
func (h *aiHandlers) complete(ctx *router.Context, system string) handler.Response {
	if h.composer == nil {
		return response.Error(response.ErrServiceUnavailable.WithMessage("completions are not configured"))
	}

	var req completionRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return response.Error(response.ErrBadRequest.WithMessage("prompt is required"))
	}
	if len(prompt) > maxPromptLength {
		return response.Error(response.ErrBadRequest.WithMessage("prompt is too long"))
	}

	text, err := h.composer.Complete(ctx, system, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrUpstreamUnavailable) || errors.Is(err, ai.ErrEmptyCompletion) {
			return response.Error(response.ErrBadGateway.WithError(err))
		}
		return response.Error(response.ErrInternalServerError.WithError(err))
	}

	return response.JSON(map[string]string{"text": text})
}
