package devotion

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// OutcomeKind classifies the result of repairing one record.
type OutcomeKind string

const (
	OutcomeTransformed OutcomeKind = "transformed"
	OutcomeSkipped     OutcomeKind = "skipped"
	OutcomeError       OutcomeKind = "error"
)

// Outcome is the per-record result of a bulk repair run.
type Outcome struct {
	Date   string      `json:"date"`
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

// Predicate selects records eligible for a repair transform.
type Predicate func(Record) bool

// Transform produces the repaired form of a record. It must not mutate its
// input; returning an equal record marks the record as already repaired.
type Transform func(Record) Record

// LegacyShape matches records that don't yet satisfy the canonical invariant:
// no usable section list while legacy questions exist, or a section missing
// its passage or its questions. Question-less sections are matched so the
// repair report flags them even though the transform cannot invent questions.
func LegacyShape(rec Record) bool {
	sections := sectionsField(rec, FieldReflectionSections)
	if len(sections) == 0 {
		return len(stringsField(rec, FieldReflectionQuestions)) > 0
	}
	for _, s := range sections {
		if s.Passage == "" || len(s.Questions) == 0 {
			return true
		}
	}
	return false
}

// RepairSections is the standard transform: full normalization.
func RepairSections(rec Record) Record {
	return Normalize(rec)
}

// BulkRepair scans every stored record, applies transform to those matching
// predicate, and writes back only the ones that actually changed. Records are
// processed independently: one failure never rolls back earlier writes, and
// the run is safe to repeat. Records already in target shape are skipped.
// Only a store-wide scan failure aborts the run.
func (r *Repository) BulkRepair(ctx context.Context, predicate Predicate, transform Transform) ([]Outcome, error) {
	dates, err := r.store.Dates(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(dates))
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		rec, err := r.store.Get(ctx, date)
		if err != nil {
			outcomes = append(outcomes, Outcome{Date: date, Kind: OutcomeError, Reason: err.Error()})
			continue
		}

		if !predicate(rec) {
			outcomes = append(outcomes, Outcome{Date: date, Kind: OutcomeSkipped, Reason: "not matched"})
			continue
		}

		next := transform(rec.Clone())
		if equalRecords(next, rec) {
			reason := repairGap(next)
			if reason == "" {
				reason = "already in target shape"
			}
			outcomes = append(outcomes, Outcome{Date: date, Kind: OutcomeSkipped, Reason: reason})
			continue
		}

		next[FieldDate] = date
		next[FieldUpdatedAt] = r.now().UTC().Format(time.RFC3339)

		if err := r.store.Put(ctx, date, next); err != nil {
			outcomes = append(outcomes, Outcome{Date: date, Kind: OutcomeError, Reason: err.Error()})
			continue
		}

		r.log.InfoContext(ctx, "devotion repaired", "date", date)
		outcomes = append(outcomes, Outcome{Date: date, Kind: OutcomeTransformed})
	}

	return outcomes, nil
}

// equalRecords compares two records by canonical JSON encoding, so a typed
// section list and its decoded map form from a stored document compare equal.
func equalRecords(a, b Record) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// repairGap names a canonical-shape defect the transform could not fix, such
// as a section left without a passage or without questions. Empty returns
// mean the record is in target shape.
func repairGap(rec Record) string {
	for _, s := range sectionsField(rec, FieldReflectionSections) {
		if s.Passage == "" {
			return "section missing passage"
		}
		if len(s.Questions) == 0 {
			return "section missing questions"
		}
	}
	return ""
}
