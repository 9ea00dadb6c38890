package devotion

// Normalize maps a raw stored record, in any of the three historical shapes,
// to the canonical shape. It is total over arbitrary input: any field bag,
// including an empty one, normalizes without error. The input is never
// mutated; unknown fields are copied through unchanged.
//
// Resolution rules:
//   - The text reference prefers bibleText, falls back to the legacy
//     scriptureReference, else is empty.
//   - Stored sections win; any section missing a passage is repaired with the
//     resolved text reference. A present passage is never overwritten.
//   - Without sections, a flat reflectionQuestions list is wrapped into one
//     section whose passage is the resolved text reference.
//   - The legacy reflectionQuestions mirror is always recomputed by
//     flattening the sections in order, so both representations stay in sync.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(raw Record) Record {
	out := raw.Clone()

	bibleText := stringField(raw, FieldBibleText)
	if bibleText == "" {
		bibleText = stringField(raw, FieldScriptureReference)
	}
	out[FieldBibleText] = bibleText

	sections := sectionsField(raw, FieldReflectionSections)
	switch {
	case len(sections) > 0:
		for i := range sections {
			if sections[i].Passage == "" {
				sections[i].Passage = bibleText
			}
		}
	default:
		if questions := stringsField(raw, FieldReflectionQuestions); len(questions) > 0 {
			sections = []ReflectionSection{{Passage: bibleText, Questions: questions}}
		} else {
			sections = []ReflectionSection{}
		}
	}

	out[FieldReflectionSections] = sections
	out[FieldReflectionQuestions] = flattenQuestions(sections)

	return out
}

// Decode builds the typed canonical view of a normalized record.
func Decode(rec Record) Devotion {
	norm := Normalize(rec)
	return Devotion{
		Date:                stringField(norm, FieldDate),
		BibleText:           stringField(norm, FieldBibleText),
		ReflectionSections:  norm[FieldReflectionSections].([]ReflectionSection),
		ReflectionQuestions: norm[FieldReflectionQuestions].([]string),
		Title:               stringField(norm, "title"),
		Content:             stringField(norm, "content"),
		Prayer:              stringField(norm, "prayer"),
		ScriptureText:       stringField(norm, "scriptureText"),
		UpdatedAt:           stringField(norm, FieldUpdatedAt),
	}
}

// flattenQuestions rebuilds the legacy mirror from the canonical sections,
// preserving section order then question order.
func flattenQuestions(sections []ReflectionSection) []string {
	questions := make([]string, 0)
	for _, s := range sections {
		questions = append(questions, s.Questions...)
	}
	return questions
}

// stringField reads a string-valued field, tolerating absence and non-string
// values.
func stringField(rec Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// stringsField reads a string-list field. Stored data yields either []string
// or []any depending on how the document was decoded; non-string elements
// are dropped.
func stringsField(rec Record, key string) []string {
	switch v := rec[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// sectionsField reads the section list in whichever representation the store
// produced: typed sections from in-process writes, or generic maps from a
// decoded document. Malformed entries degrade to empty sections rather than
// failing, keeping Normalize total.
func sectionsField(rec Record, key string) []ReflectionSection {
	switch v := rec[key].(type) {
	case []ReflectionSection:
		out := make([]ReflectionSection, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]ReflectionSection, 0, len(v))
		for _, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				out = append(out, ReflectionSection{})
				continue
			}
			sec := Record(m)
			out = append(out, ReflectionSection{
				Passage:   stringField(sec, "passage"),
				Questions: stringsField(sec, "questions"),
				Title:     stringField(sec, "title"),
				Content:   stringField(sec, "content"),
			})
		}
		return out
	default:
		return nil
	}
}
