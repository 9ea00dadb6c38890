package httpapi

import (
	"log/slog"

	"github.com/quiethour/quiethour/internal/devotion"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/logger"
	"github.com/quiethour/quiethour/internal/middleware"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

type adminHandlers struct {
	repo *devotion.Repository
	log  *slog.Logger
}

// repair runs the bulk migration of legacy-shaped records and returns the
// per-record report.
func (h *adminHandlers) repair(ctx *router.Context) handler.Response {
	outcomes, err := h.repo.BulkRepair(ctx, devotion.LegacyShape, devotion.RepairSections)
	if err != nil {
		return response.Error(devotionError(err))
	}

	counts := map[devotion.OutcomeKind]int{}
	for _, o := range outcomes {
		counts[o.Kind]++
	}

	if session, ok := middleware.GetSession(ctx); ok {
		h.log.InfoContext(ctx, "bulk repair completed",
			logger.UserEmail(session.Email),
			slog.Int("transformed", counts[devotion.OutcomeTransformed]),
			slog.Int("skipped", counts[devotion.OutcomeSkipped]),
			slog.Int("errors", counts[devotion.OutcomeError]),
		)
	}

	return response.JSON(map[string]any{
		"transformed": counts[devotion.OutcomeTransformed],
		"skipped":     counts[devotion.OutcomeSkipped],
		"errors":      counts[devotion.OutcomeError],
		"outcomes":    outcomes,
	})
}

// remove deletes one record, typically a malformed one found during review.
func (h *adminHandlers) remove(ctx *router.Context) handler.Response {
	date := ctx.Param("date")
	if err := h.repo.Delete(ctx, date); err != nil {
		return response.Error(devotionError(err))
	}

	if session, ok := middleware.GetSession(ctx); ok {
		h.log.InfoContext(ctx, "devotion deleted",
			logger.UserEmail(session.Email), logger.Date(date))
	}
	return response.NoContent()
}
