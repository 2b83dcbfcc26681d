package driven

// Config is the persisted tool configuration. Values supplied on the
// command line or through the environment take precedence over it.
type Config struct {
	// APIKey authenticates against the survey platform API.
	APIKey string

	// BaseURL overrides the default API base URL.
	BaseURL string

	// Concurrency bounds parallel survey downloads.
	Concurrency int

	// StripURIs are namespace URI prefixes removed during cleaning.
	StripURIs []string

	// Format is the default conversation wire format name.
	Format string
}

// ConfigStore persists tool configuration.
type ConfigStore interface {
	// Load reads the stored configuration. A missing file yields an
	// empty configuration, not an error.
	Load() (*Config, error)

	// Save persists the configuration.
	Save(cfg *Config) error

	// Path returns the backing file path.
	Path() string
}
