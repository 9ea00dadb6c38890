package devotion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/devotion"
)

func sections(rec devotion.Record) []devotion.ReflectionSection {
	return rec[devotion.FieldReflectionSections].([]devotion.ReflectionSection)
}

func questions(rec devotion.Record) []string {
	return rec[devotion.FieldReflectionQuestions].([]string)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{})
		assert.Equal(t, "", out[devotion.FieldBibleText])
		assert.Empty(t, sections(out))
		assert.Empty(t, questions(out))
	})

	t.Run("nil input", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(nil)
		assert.Empty(t, sections(out))
	})

	t.Run("legacy questions wrapped into one section", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"reflectionQuestions": []string{"q1", "q2"},
			"bibleText":           "John 3:16",
		})

		secs := sections(out)
		require.Len(t, secs, 1)
		assert.Equal(t, "John 3:16", secs[0].Passage)
		assert.Equal(t, []string{"q1", "q2"}, secs[0].Questions)
		assert.Equal(t, []string{"q1", "q2"}, questions(out))
	})

	t.Run("scriptureReference fallback", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"scriptureReference":  "Luke 24:36-49",
			"reflectionQuestions": []string{"Q1", "Q2", "Q3"},
		})

		assert.Equal(t, "Luke 24:36-49", out[devotion.FieldBibleText])
		secs := sections(out)
		require.Len(t, secs, 1)
		assert.Equal(t, "Luke 24:36-49", secs[0].Passage)
		assert.Equal(t, []string{"Q1", "Q2", "Q3"}, secs[0].Questions)
	})

	t.Run("bibleText preferred over scriptureReference", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"bibleText":          "John 1:1",
			"scriptureReference": "Genesis 1:1",
		})
		assert.Equal(t, "John 1:1", out[devotion.FieldBibleText])
		// Legacy field passes through untouched.
		assert.Equal(t, "Genesis 1:1", out["scriptureReference"])
	})

	t.Run("passage repair", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"reflectionSections": []devotion.ReflectionSection{
				{Passage: "", Questions: []string{"q"}},
			},
			"bibleText": "Luke 24:1",
		})

		secs := sections(out)
		require.Len(t, secs, 1)
		assert.Equal(t, "Luke 24:1", secs[0].Passage)
		assert.Equal(t, []string{"q"}, secs[0].Questions)
	})

	t.Run("present passage never overwritten", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"reflectionSections": []devotion.ReflectionSection{
				{Passage: "Psalm 23:1", Questions: []string{"q"}},
			},
			"bibleText": "Luke 24:1",
		})

		assert.Equal(t, "Psalm 23:1", sections(out)[0].Passage)
	})

	t.Run("sections win over legacy questions", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"reflectionSections": []devotion.ReflectionSection{
				{Passage: "Mark 1:1", Questions: []string{"a", "b"}},
				{Passage: "Mark 1:9", Questions: []string{"c"}},
			},
			"reflectionQuestions": []string{"stale"},
		})

		// The mirror is recomputed from the sections.
		assert.Equal(t, []string{"a", "b", "c"}, questions(out))
	})

	t.Run("decoded document shape accepted", func(t *testing.T) {
		t.Parallel()

		// A record fetched from the document store arrives as generic maps.
		out := devotion.Normalize(devotion.Record{
			"bibleText": "Acts 2:1",
			"reflectionSections": []any{
				map[string]any{"passage": "", "questions": []any{"q1", "q2"}},
			},
		})

		secs := sections(out)
		require.Len(t, secs, 1)
		assert.Equal(t, "Acts 2:1", secs[0].Passage)
		assert.Equal(t, []string{"q1", "q2"}, secs[0].Questions)
	})

	t.Run("passthrough fields preserved", func(t *testing.T) {
		t.Parallel()

		out := devotion.Normalize(devotion.Record{
			"title":      "Morning Light",
			"prayer":     "Amen.",
			"hymnOfWeek": "Be Thou My Vision",
		})

		assert.Equal(t, "Morning Light", out["title"])
		assert.Equal(t, "Amen.", out["prayer"])
		assert.Equal(t, "Be Thou My Vision", out["hymnOfWeek"])
	})

	t.Run("input not mutated", func(t *testing.T) {
		t.Parallel()

		in := devotion.Record{
			"reflectionQuestions": []string{"q1"},
			"bibleText":           "John 3:16",
		}
		_ = devotion.Normalize(in)

		_, hasSections := in[devotion.FieldReflectionSections]
		assert.False(t, hasSections)
	})
}

func TestNormalize_Idempotence(t *testing.T) {
	t.Parallel()

	inputs := map[string]devotion.Record{
		"empty":  {},
		"legacy": {"scriptureReference": "Luke 24:36-49", "reflectionQuestions": []string{"Q1", "Q2"}},
		"repaired": {
			"bibleText": "John 3:16",
			"reflectionSections": []devotion.ReflectionSection{
				{Passage: "", Questions: []string{"q"}},
			},
		},
		"canonical": {
			"bibleText": "John 3:16",
			"reflectionSections": []devotion.ReflectionSection{
				{Passage: "John 3:16", Questions: []string{"q"}},
			},
			"reflectionQuestions": []string{"q"},
		},
		"garbage": {"bibleText": 42, "reflectionSections": "nope", "reflectionQuestions": []any{1, "q"}},
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			once := devotion.Normalize(in)
			twice := devotion.Normalize(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	d := devotion.Decode(devotion.Record{
		"date":                "2025-04-23",
		"scriptureReference":  "Luke 24:36-49",
		"reflectionQuestions": []string{"Q1", "Q2", "Q3"},
		"title":               "Peace Be With You",
	})

	assert.Equal(t, "2025-04-23", d.Date)
	assert.Equal(t, "Luke 24:36-49", d.BibleText)
	require.Len(t, d.ReflectionSections, 1)
	assert.Equal(t, "Luke 24:36-49", d.ReflectionSections[0].Passage)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, d.ReflectionQuestions)
	assert.Equal(t, "Peace Be With You", d.Title)
	assert.True(t, d.IsComplete())
}

func TestValidDate(t *testing.T) {
	t.Parallel()

	assert.True(t, devotion.ValidDate("2025-04-23"))
	assert.False(t, devotion.ValidDate("2025-4-23"))
	assert.False(t, devotion.ValidDate("23-04-2025"))
	assert.False(t, devotion.ValidDate("2025-13-01"))
	assert.False(t, devotion.ValidDate(""))
	assert.False(t, devotion.ValidDate("not-a-date"))
}
