package driven

import (
	"context"
	"time"
)

// FileStore abstracts artifact storage on the local filesystem.
type FileStore interface {
	// WriteAtomic writes data to path via a temporary file in the same
	// directory followed by a rename, so a reader never observes a
	// truncated file as complete.
	WriteAtomic(path string, data []byte) error

	// ReadFile reads the file at path.
	ReadFile(path string) ([]byte, error)

	// ListXML returns the survey XML files under dir (non-recursive),
	// sorted by name for deterministic batch order.
	ListXML(dir string) ([]string, error)

	// Exists reports whether path exists.
	Exists(path string) bool
}

// Item statuses recorded in the run store.
const (
	ItemSucceeded = "succeeded"
	ItemSkipped   = "skipped"
)

// RunRecord describes one recorded batch run.
type RunRecord struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Skipped    int
}

// RunStore persists batch runs and per-item outcomes, enabling resumed
// fetches and run history reporting.
type RunStore interface {
	// CreateRun records the start of a batch run of the given kind
	// (e.g. "fetch") and returns its identifier.
	CreateRun(ctx context.Context, kind string) (string, error)

	// FinishRun marks a run complete.
	FinishRun(ctx context.Context, runID string) error

	// RecordItem records the outcome of one item within a run.
	RecordItem(ctx context.Context, runID, item, status, detail string) error

	// SucceededItems returns the items recorded as succeeded in a run,
	// used to skip already-downloaded surveys on resume.
	SucceededItems(ctx context.Context, runID string) (map[string]bool, error)

	// ListRuns returns recorded runs, most recent first.
	ListRuns(ctx context.Context) ([]RunRecord, error)
}
