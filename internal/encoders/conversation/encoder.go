// Package conversation encodes question records as conversation-format
// training examples and reads and writes dataset files in the supported
// wire formats.
package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

// Ensure Encoder implements the interface.
var _ driven.Encoder = (*Encoder)(nil)

// Options configures an Encoder.
type Options struct {
	// Format selects the wire format. Defaults to FormatShareGPT.
	Format Format

	// IncludeMetadata attaches provenance fields (survey and question
	// identifiers) to each example.
	IncludeMetadata bool

	// SystemPrompt, when set, is prepended to every example as a system
	// turn.
	SystemPrompt string
}

// Encoder builds conversation examples from question records.
type Encoder struct {
	opts Options
}

// New creates an Encoder.
func New(opts Options) *Encoder {
	if opts.Format == "" {
		opts.Format = FormatShareGPT
	}
	return &Encoder{opts: opts}
}

// Format returns the wire format the encoder serialises to.
func (e *Encoder) Format() Format {
	return e.opts.Format
}

// Encode builds one training example: a human turn carrying the rendered
// prompt and an assistant turn carrying the question's XML section.
// Questions without usable content return an error wrapping
// domain.ErrEmptyQuestion.
func (e *Encoder) Encode(_ context.Context, q domain.Question) (*domain.ConversationExample, error) {
	if !q.HasContent() {
		return nil, fmt.Errorf("%w: question %q in survey %q", domain.ErrEmptyQuestion, q.ID, q.SurveyID)
	}

	ex := &domain.ConversationExample{
		ID:         uuid.NewString(),
		SurveyID:   q.SurveyID,
		QuestionID: q.ID,
	}

	if e.opts.SystemPrompt != "" {
		ex.Turns = append(ex.Turns, domain.Turn{Role: domain.RoleSystem, Text: e.opts.SystemPrompt})
	}
	ex.Turns = append(ex.Turns,
		domain.Turn{Role: domain.RoleHuman, Text: Prompt(q)},
		domain.Turn{Role: domain.RoleAssistant, Text: answer(q)},
	)

	if e.opts.IncludeMetadata {
		ex.Metadata = metadata(q)
	}

	return ex, nil
}

// Prompt renders the human side of a training pair from the question
// prompt and its response options.
func Prompt(q domain.Question) string {
	if len(q.Options) == 0 {
		return q.Label
	}

	var b strings.Builder
	b.WriteString(q.Label)
	b.WriteString(optionsHeader)
	for _, o := range q.Options {
		b.WriteString("\n" + optionBullet + o)
	}
	return b.String()
}

const (
	optionsHeader = "\n\nOptions:"
	optionBullet  = "- "
)

// DecodePrompt is the inverse of Prompt: it recovers the question label
// and response options from a rendered prompt.
func DecodePrompt(prompt string) (label string, options []string) {
	label, rest, found := strings.Cut(prompt, optionsHeader)
	if !found {
		return prompt, nil
	}
	for _, line := range strings.Split(rest, "\n") {
		if o, ok := strings.CutPrefix(line, optionBullet); ok {
			options = append(options, o)
		}
	}
	return label, options
}

func answer(q domain.Question) string {
	if q.Section != "" {
		return q.Section
	}
	return strings.Join(q.Options, "\n")
}

func metadata(q domain.Question) map[string]string {
	m := map[string]string{
		"survey_id":   q.SurveyID,
		"question_id": q.ID,
	}
	if q.IsSubItem() {
		m["parent"] = q.Parent
		m["index"] = strconv.Itoa(q.Index)
	}
	return m
}
