// Package devotion holds the devotional content domain: the canonical record
// shape, the normalization of historical record shapes into it, and the
// repository mediating all reads and writes.
//
// A devotion is one day's scripture-based content, keyed by calendar date.
// Three historical shapes exist in stored data: the current sectioned shape,
// a flat reflectionQuestions list, and a scriptureReference-only shape.
// Normalization reconciles all of them into one canonical form.
package devotion

import (
	"maps"
	"time"
)

// Field names shared by the stored document and the API representation.
const (
	FieldDate                = "date"
	FieldBibleText           = "bibleText"
	FieldScriptureReference  = "scriptureReference" // legacy
	FieldReflectionSections  = "reflectionSections"
	FieldReflectionQuestions = "reflectionQuestions" // legacy mirror
	FieldUpdatedAt           = "updatedAt"
)

// DateLayout is the primary key format for devotion records.
// Lexicographic order of keys equals chronological order.
const DateLayout = "2006-01-02"

// Record is the raw stored field bag for a devotion document.
// Any subset of fields may be present; unknown fields pass through
// normalization untouched.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

// ReflectionSection pairs a scripture sub-passage with its study questions.
type ReflectionSection struct {
	Passage   string   `json:"passage" bson:"passage"`
	Questions []string `json:"questions" bson:"questions"`
	Title     string   `json:"title,omitempty" bson:"title,omitempty"`
	Content   string   `json:"content,omitempty" bson:"content,omitempty"`
}

// Devotion is the typed canonical view of a normalized record.
// Passthrough fields outside the known set are not carried here; callers that
// must preserve them work with the normalized Record directly.
type Devotion struct {
	Date                string              `json:"date"`
	BibleText           string              `json:"bibleText"`
	ReflectionSections  []ReflectionSection `json:"reflectionSections"`
	ReflectionQuestions []string            `json:"reflectionQuestions"`
	Title               string              `json:"title,omitempty"`
	Content             string              `json:"content,omitempty"`
	Prayer              string              `json:"prayer,omitempty"`
	ScriptureText       string              `json:"scriptureText,omitempty"`
	UpdatedAt           string              `json:"updatedAt,omitempty"`
}

// IsComplete reports whether the devotion satisfies the canonical-form
// invariant: a non-empty section list where every section has a passage.
func (d Devotion) IsComplete() bool {
	if len(d.ReflectionSections) == 0 {
		return false
	}
	for _, s := range d.ReflectionSections {
		if s.Passage == "" {
			return false
		}
	}
	return true
}

// ValidDate reports whether date is a well-formed YYYY-MM-DD key.
func ValidDate(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == date
}
