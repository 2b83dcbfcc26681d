package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Jasgro/decipher-finetune/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

// Store is a SQLite-backed store for batch run bookkeeping.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.decipher-finetune/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".decipher-finetune", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// CreateRun records the start of a batch run and returns its identifier.
func (s *runStore) CreateRun(ctx context.Context, kind string) (string, error) {
	if kind == "" {
		return "", domain.ErrInvalidInput
	}

	id := uuid.NewString()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, started_at)
		VALUES (?, ?, ?)
	`, id, kind, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}

	return id, nil
}

// FinishRun marks a run complete.
func (s *runStore) FinishRun(ctx context.Context, runID string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordItem records the outcome of one item within a run. Re-recording
// an item replaces its earlier outcome.
func (s *runStore) RecordItem(ctx context.Context, runID, item, status, detail string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO run_items (run_id, item, status, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, item) DO UPDATE SET
			status = excluded.status,
			detail = excluded.detail,
			recorded_at = excluded.recorded_at
	`, runID, item, status, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording item: %w", err)
	}
	return nil
}

// SucceededItems returns the items recorded as succeeded in a run.
func (s *runStore) SucceededItems(ctx context.Context, runID string) (map[string]bool, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT item FROM run_items WHERE run_id = ? AND status = ?
	`, runID, driven.ItemSucceeded)
	if err != nil {
		return nil, fmt.Errorf("querying run items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]bool)
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		items[item] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run items: %w", err)
	}

	return items, nil
}

// ListRuns returns recorded runs, most recent first.
func (s *runStore) ListRuns(ctx context.Context) ([]driven.RunRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT r.id, r.kind, r.started_at, r.finished_at,
			COALESCE(SUM(CASE WHEN i.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.status = ? THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN run_items i ON i.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
	`, driven.ItemSucceeded, driven.ItemSkipped)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []driven.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.RunRecord
		var finishedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.StartedAt, &finishedAt,
			&rec.Succeeded, &rec.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finishedAt.Valid {
			rec.FinishedAt = finishedAt.Time
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
