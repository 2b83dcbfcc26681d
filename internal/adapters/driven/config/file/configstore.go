package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the TOML layout of the configuration file.
type fileConfig struct {
	APIKey      string   `toml:"api_key,omitempty"`
	BaseURL     string   `toml:"base_url,omitempty"`
	Concurrency int      `toml:"concurrency,omitempty"`
	StripURIs   []string `toml:"strip_uris,omitempty"`
	Format      string   `toml:"format,omitempty"`
}

// ConfigStore is a TOML-file implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a config store backed by configDir/config.toml.
// If configDir is empty, defaults to ~/.decipher-finetune.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".decipher-finetune")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the configuration file. A missing file yields an empty
// configuration.
func (s *ConfigStore) Load() (*driven.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &driven.Config{}, nil
		}
		return nil, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	return &driven.Config{
		APIKey:      fc.APIKey,
		BaseURL:     fc.BaseURL,
		Concurrency: fc.Concurrency,
		StripURIs:   fc.StripURIs,
		Format:      fc.Format,
	}, nil
}

// Save persists the configuration. The file carries the API key, so it
// is written with restricted permissions.
func (s *ConfigStore) Save(cfg *driven.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(fileConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Concurrency: cfg.Concurrency,
		StripURIs:   cfg.StripURIs,
		Format:      cfg.Format,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
