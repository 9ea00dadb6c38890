package httpapi

import (
	"errors"

	"github.com/quiethour/quiethour/internal/binder"
	"github.com/quiethour/quiethour/internal/devotion"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

type devotionHandlers struct {
	repo *devotion.Repository
}

// get serves the canonical record for one date. Responses always carry both
// the section list and the flat question mirror, whatever shape is stored.
func (h *devotionHandlers) get(ctx *router.Context) handler.Response {
	rec, err := h.repo.Get(ctx, ctx.Param("date"))
	if err != nil {
		return response.Error(devotionError(err))
	}
	return response.JSON(rec)
}

func (h *devotionHandlers) listDates(ctx *router.Context) handler.Response {
	dates, err := h.repo.ListDates(ctx)
	if err != nil {
		return response.Error(devotionError(err))
	}
	return response.JSON(map[string]any{"dates": dates})
}

// upsert merges the submitted fields onto the stored record and returns the
// full canonical result.
func (h *devotionHandlers) upsert(ctx *router.Context) handler.Response {
	var partial devotion.Record
	if err := binder.JSON()(ctx.Request(), &partial); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	rec, err := h.repo.Upsert(ctx, ctx.Param("date"), partial)
	if err != nil {
		return response.Error(devotionError(err))
	}
	return response.JSON(rec)
}

// devotionError maps domain errors onto HTTP errors.
func devotionError(err error) error {
	switch {
	case errors.Is(err, devotion.ErrNotFound):
		return response.ErrNotFound.WithError(err)
	case errors.Is(err, devotion.ErrInvalidDate):
		return response.ErrBadRequest.WithError(err)
	case errors.Is(err, devotion.ErrStorageUnavailable):
		return response.ErrServiceUnavailable.WithError(err)
	default:
		return response.ErrInternalServerError.WithError(err)
	}
}
