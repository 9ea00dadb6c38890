package httpapi

import (
	"context"
	"net/http"

	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

// healthHandler probes every registered component. A single failing probe
// turns the whole response into a 503 so load balancers stop routing here.
func healthHandler(checks map[string]func(context.Context) error) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(components) > 0 {
			body["components"] = components
		}
		return response.JSONWithStatus(body, status)
	}
}
