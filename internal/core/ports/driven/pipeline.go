package driven

import (
	"context"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// Cleaner normalises XML namespaces in a survey document, producing a
// new document. The input is never mutated.
type Cleaner interface {
	// Clean rewrites the document with one canonical prefix per
	// referenced namespace URI and drops unused declarations. Malformed
	// XML returns an error wrapping domain.ErrParse.
	Clean(ctx context.Context, doc *domain.SurveyDocument) (*domain.SurveyDocument, error)
}

// SplitResult is the outcome of splitting one cleaned document.
type SplitResult struct {
	// Questions are the extracted question records in source order.
	Questions []domain.Question

	// Mismatches records composite nodes skipped because their children
	// only partially followed the sub-item naming convention.
	Mismatches []domain.Skip
}

// Splitter decomposes composite questions in a cleaned document into
// one Question record per sub-item.
type Splitter interface {
	// Split extracts question records. Documents that do not follow the
	// composite naming convention pass through with zero splits; only
	// malformed XML is an error (wrapping domain.ErrParse).
	Split(ctx context.Context, doc *domain.SurveyDocument) (*SplitResult, error)
}

// Encoder turns a question into a conversation-format training example.
type Encoder interface {
	// Encode builds the example. Questions without usable content return
	// an error wrapping domain.ErrEmptyQuestion and must be counted as
	// skips by the caller, never emitted empty.
	Encode(ctx context.Context, q domain.Question) (*domain.ConversationExample, error)
}
