package domain

import (
	"fmt"
	"sort"
)

// SkipReason classifies why an input item was skipped.
type SkipReason string

// Skip reasons. Every skip is counted and attributable to a specific item.
const (
	SkipNotFound   SkipReason = "not_found"
	SkipAmbiguous  SkipReason = "ambiguous"
	SkipParse      SkipReason = "parse_error"
	SkipConvention SkipReason = "convention_mismatch"
	SkipEmpty      SkipReason = "empty_content"
	SkipTransient  SkipReason = "retries_exhausted"
)

// Skip records one skipped input item with its reason.
type Skip struct {
	// Item identifies the skipped input (survey title, file name, or
	// question identifier).
	Item string

	// Reason classifies the skip.
	Reason SkipReason

	// Detail is an optional human-readable explanation.
	Detail string
}

func (s Skip) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("%s: %s", s.Item, s.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", s.Item, s.Reason, s.Detail)
}

// BatchReport accumulates the outcome of one batch run. Non-fatal errors
// become skips; fatal errors abort the batch before the report is final.
type BatchReport struct {
	// Requested is the number of input items the batch started with.
	Requested int

	// Succeeded is the number of items fully processed.
	Succeeded int

	// Skips lists every skipped item in processing order.
	Skips []Skip
}

// AddSuccess records one successfully processed item.
func (r *BatchReport) AddSuccess() {
	r.Succeeded++
}

// AddSkip records a skipped item.
func (r *BatchReport) AddSkip(item string, reason SkipReason, detail string) {
	r.Skips = append(r.Skips, Skip{Item: item, Reason: reason, Detail: detail})
}

// Skipped returns the number of skipped items.
func (r *BatchReport) Skipped() int {
	return len(r.Skips)
}

// DatasetSummary holds aggregate counts over a produced dataset. It is
// derived by folding over examples and skip lists, never persisted as a
// source of truth.
type DatasetSummary struct {
	// ExamplesProduced is the number of conversation examples written.
	ExamplesProduced int

	// SurveysProcessed is the number of distinct source surveys.
	SurveysProcessed int

	// QuestionsSplit is the number of sub-item questions produced from
	// composite questions.
	QuestionsSplit int

	// ErrorsSkipped is the total number of per-item skips.
	ErrorsSkipped int

	// PerSurvey counts examples per source survey identifier.
	PerSurvey map[string]int

	// TotalTurns counts conversation turns across all examples.
	TotalTurns int
}

// TopSurveys returns up to n survey identifiers ordered by descending
// example count, ties broken by identifier.
func (s DatasetSummary) TopSurveys(n int) []string {
	ids := make([]string, 0, len(s.PerSurvey))
	for id := range s.PerSurvey {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.PerSurvey[ids[i]] != s.PerSurvey[ids[j]] {
			return s.PerSurvey[ids[i]] > s.PerSurvey[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}
