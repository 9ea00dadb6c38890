package devotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Store defines the persistence interface for devotion records.
// Implementations report absence as ErrNotFound and connectivity failures as
// ErrStorageUnavailable; they must not interpret record contents.
type Store interface {
	Get(ctx context.Context, date string) (Record, error)
	Put(ctx context.Context, date string, rec Record) error
	Delete(ctx context.Context, date string) error
	// Dates returns all stored date keys; order is not guaranteed.
	Dates(ctx context.Context) ([]string, error)
}

// Repository mediates all reads and writes of devotion records.
// Reads normalize; writes merge and derive the legacy mirror before
// persisting, so every stored record independently satisfies the canonical
// invariant without a read-time transform.
type Repository struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(log *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository creates a Repository over the given store.
func NewRepository(store Store, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store: store,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get fetches and normalizes the record for the given date.
// A malformed-but-present record normalizes successfully; only a truly
// absent record yields ErrNotFound.
func (r *Repository) Get(ctx context.Context, date string) (Record, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	rec, err := r.store.Get(ctx, date)
	if err != nil {
		return nil, err
	}

	norm := Normalize(rec)
	norm[FieldDate] = date
	return norm, nil
}

// ListDates returns all stored date keys in ascending order.
// An empty store yields an empty slice, not an error.
func (r *Repository) ListDates(ctx context.Context) ([]string, error) {
	dates, err := r.store.Dates(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(dates)
	return dates, nil
}

// Upsert merges partial onto the stored record for date, creating it if
// absent. Fields present in partial overwrite; absent fields are preserved.
// The legacy reflectionQuestions mirror and the canonical sections are
// re-derived before persisting, and updatedAt is set to the current time.
// The date key itself is immutable and cannot be changed through partial.
func (r *Repository) Upsert(ctx context.Context, date string, partial Record) (Record, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	existing, err := r.store.Get(ctx, date)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		existing = Record{}
	}

	merged := existing.Clone()
	for k, v := range partial {
		if k == FieldDate {
			continue
		}
		merged[k] = v
	}

	// When the caller supplied only the legacy flat questions, the stored
	// sections are stale: rebuild them from the supplied questions.
	_, hasSections := partial[FieldReflectionSections]
	_, hasQuestions := partial[FieldReflectionQuestions]
	if hasQuestions && !hasSections {
		delete(merged, FieldReflectionSections)
	}

	merged = Normalize(merged)
	merged[FieldDate] = date
	merged[FieldUpdatedAt] = r.now().UTC().Format(time.RFC3339)

	if err := r.store.Put(ctx, date, merged); err != nil {
		return nil, err
	}

	r.log.InfoContext(ctx, "devotion upserted", "date", date)
	return merged, nil
}

// Delete removes the record for the given date.
func (r *Repository) Delete(ctx context.Context, date string) error {
	if !ValidDate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return r.store.Delete(ctx, date)
}
