package domain

// Question is a single survey question extracted from a cleaned
// SurveyDocument. Composite questions (matrix/grid) are decomposed into
// one Question per sub-item by the splitter.
type Question struct {
	// ID is the question identifier from the survey XML, e.g. "Q5".
	// For sub-items this is the composite identifier, e.g. "Q5_2".
	ID string

	// SurveyID links back to the source document for provenance.
	SurveyID string

	// Parent is the parent question identifier for sub-items of a
	// composite question. Empty for standalone questions.
	Parent string

	// Index is the 1-based sub-item index within a composite question.
	// Zero for standalone questions.
	Index int

	// Label is the question prompt text.
	Label string

	// Options are the response option texts, in source order.
	Options []string

	// Section is the raw XML of the question node this record was
	// extracted from, used as the model-output side of a training pair.
	Section string
}

// IsSubItem reports whether the question was split out of a composite
// parent question.
func (q Question) IsSubItem() bool {
	return q.Parent != ""
}

// HasContent reports whether the question carries enough material to
// encode: a prompt plus either a section or response options.
func (q Question) HasContent() bool {
	if q.Label == "" {
		return false
	}
	return q.Section != "" || len(q.Options) > 0
}
