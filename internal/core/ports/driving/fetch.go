package driving

import (
	"context"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// FetchRequest configures one fetch batch. Configuration is threaded
// explicitly so the orchestrator stays independently testable.
type FetchRequest struct {
	// Titles are survey titles to resolve by exact match against the
	// listing endpoint.
	Titles []string

	// Paths are survey paths to download directly, bypassing resolution.
	Paths []string

	// OutputDir receives one XML file per downloaded survey.
	OutputDir string

	// Concurrency bounds in-flight downloads. 1 means sequential.
	Concurrency int

	// ResumeRunID, when set, skips surveys already recorded as
	// succeeded in that run.
	ResumeRunID string
}

// FetchOrchestrator downloads survey XML exports in a batch.
type FetchOrchestrator interface {
	// Fetch downloads every requested survey. Per-item failures become
	// skips in the report; authentication failures abort the batch with
	// an error wrapping domain.ErrAuthFailed.
	Fetch(ctx context.Context, req FetchRequest) (*domain.BatchReport, error)
}
