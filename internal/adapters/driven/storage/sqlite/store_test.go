package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "runs.db"), store.Path())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening re-runs migrate against an up-to-date schema.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestRunStore_CreateAndFinish(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	id, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, runs.FinishRun(ctx, id))

	recs, err := runs.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id, recs[0].ID)
	assert.Equal(t, "fetch", recs[0].Kind)
	assert.False(t, recs[0].StartedAt.IsZero())
	assert.False(t, recs[0].FinishedAt.IsZero())
}

func TestRunStore_CreateRunEmptyKind(t *testing.T) {
	store := newTestStore(t)
	_, err := store.RunStore().CreateRun(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_FinishUnknownRun(t *testing.T) {
	store := newTestStore(t)
	err := store.RunStore().FinishRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_RecordAndCountItems(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	id, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)

	require.NoError(t, runs.RecordItem(ctx, id, "survey-a", driven.ItemSucceeded, ""))
	require.NoError(t, runs.RecordItem(ctx, id, "survey-b", driven.ItemSkipped, "not found"))
	require.NoError(t, runs.RecordItem(ctx, id, "survey-c", driven.ItemSucceeded, ""))

	recs, err := runs.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Succeeded)
	assert.Equal(t, 1, recs[0].Skipped)
}

func TestRunStore_RecordItemReplacesOutcome(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	id, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)

	require.NoError(t, runs.RecordItem(ctx, id, "survey-a", driven.ItemSkipped, "transient"))
	require.NoError(t, runs.RecordItem(ctx, id, "survey-a", driven.ItemSucceeded, ""))

	items, err := runs.SucceededItems(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"survey-a": true}, items)
}

func TestRunStore_SucceededItems(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	id, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)

	require.NoError(t, runs.RecordItem(ctx, id, "survey-a", driven.ItemSucceeded, ""))
	require.NoError(t, runs.RecordItem(ctx, id, "survey-b", driven.ItemSkipped, "ambiguous"))

	items, err := runs.SucceededItems(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"survey-a": true}, items)

	empty, err := runs.SucceededItems(ctx, "unknown-run")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRunStore_ListRunsMostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	first, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)
	second, err := runs.CreateRun(ctx, "fetch")
	require.NoError(t, err)

	recs, err := runs.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	ids := []string{recs[0].ID, recs[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	assert.False(t, recs[0].StartedAt.Before(recs[1].StartedAt))
}

func TestRunStoreInterfaceCompliance(t *testing.T) {
	var _ driven.RunStore = (*runStore)(nil)
}
