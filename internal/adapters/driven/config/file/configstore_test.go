package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".decipher-finetune", "config.toml"), store.Path())
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.APIKey)
	assert.Zero(t, cfg.Concurrency)
}

func TestConfigStore_SaveAndLoad(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	want := &driven.Config{
		APIKey:      "k3y",
		BaseURL:     "https://example.com/api/v1",
		Concurrency: 4,
		StripURIs:   []string{"http://decipherinc.com/"},
		Format:      "sharegpt",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigStore_SaveRestrictsPermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(&driven.Config{APIKey: "secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("api_key = ["), 0600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}
