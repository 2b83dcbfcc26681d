package driving

import (
	"context"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// Transformer runs the transform pipeline stages over files on disk.
// Each stage reads its inputs, writes new artifacts and reports per-item
// skips; no stage mutates its input files.
type Transformer interface {
	// CleanAll cleans every survey XML file under inputDir into
	// outputDir, keeping file names.
	CleanAll(ctx context.Context, inputDir, outputDir string) (*domain.BatchReport, error)

	// SplitAll extracts question records from every cleaned XML file
	// under inputDir.
	SplitAll(ctx context.Context, inputDir string) ([]domain.Question, *domain.BatchReport, error)

	// EncodeAll encodes questions into conversation examples. Questions
	// without usable content are skipped and counted.
	EncodeAll(ctx context.Context, questions []domain.Question) ([]domain.ConversationExample, *domain.BatchReport, error)
}

// VerifyResult reports the outcome of re-verifying cleaned documents.
type VerifyResult struct {
	// Checked is the number of documents verified.
	Checked int

	// NotIdempotent lists files whose second cleaning pass changed them.
	NotIdempotent []string

	// ResidualDeclarations lists files still carrying namespace
	// declarations that should have been stripped.
	ResidualDeclarations []string
}

// Verifier re-checks cleaned XML output.
type Verifier interface {
	// VerifyCleaned re-cleans every file under dir and reports documents
	// that were not idempotent or still carry stripped declarations.
	VerifyCleaned(ctx context.Context, dir string) (*VerifyResult, error)
}

// StatsService computes aggregate statistics over a produced dataset.
type StatsService interface {
	// Summarize folds over the examples in the dataset file.
	Summarize(ctx context.Context, dataPath string) (*domain.DatasetSummary, error)
}
