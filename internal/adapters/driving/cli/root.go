// Package cli implements the command-line interface: fetch, clean,
// split, convert, stats, verify, auth and version commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// envAPIKey overrides the stored API key when set.
const envAPIKey = "DECIPHER_API_KEY"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "decipher-finetune",
	Short: "Build fine-tuning datasets from Decipher survey exports",
	Long: `decipher-finetune downloads survey XML exports from the Decipher API
and transforms them into conversation-format fine-tuning data.

The pipeline has two halves:

  fetch                    download survey XML exports
  clean | split | convert  normalise namespaces, extract questions,
                           encode conversation examples

Each stage writes new artifacts and never mutates its inputs, so any
stage can be re-run safely.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Dependencies are the wired adapters the commands run against.
// Commands nil-check what they need so partial wiring fails cleanly.
type Dependencies struct {
	ConfigStore driven.ConfigStore
	Files       driven.FileStore
	Runs        driven.RunStore

	// NewSurveyAPI builds the API client once credentials are resolved.
	NewSurveyAPI func(apiKey, baseURL string) driven.SurveyAPI
}

var (
	configStore  driven.ConfigStore
	fileStore    driven.FileStore
	runStore     driven.RunStore
	newSurveyAPI func(apiKey, baseURL string) driven.SurveyAPI
)

// Configure wires the adapters into the command tree. Call before
// Execute.
func Configure(deps Dependencies) {
	configStore = deps.ConfigStore
	fileStore = deps.Files
	runStore = deps.Runs
	newSurveyAPI = deps.NewSurveyAPI
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// activeConfig loads the stored configuration and applies environment
// overrides. A missing config store yields an empty configuration.
func activeConfig() (*driven.Config, error) {
	cfg := &driven.Config{}
	if configStore != nil {
		loaded, err := configStore.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if key := os.Getenv(envAPIKey); key != "" {
		cfg.APIKey = key
	}

	return cfg, nil
}

// requireAPIKey returns the resolved API key or a configuration error
// naming both ways to supply one.
func requireAPIKey(cfg *driven.Config) (string, error) {
	if cfg.APIKey == "" {
		return "", fmt.Errorf("%w: set %s or run 'decipher-finetune auth set'",
			domain.ErrMissingCredential, envAPIKey)
	}
	return cfg.APIKey, nil
}

// printReport prints the batch outcome. Skips are reported item by item
// so every dropped input is attributable.
func printReport(cmd *cobra.Command, report *domain.BatchReport) {
	cmd.Printf("%d succeeded, %d skipped (of %d requested)\n",
		report.Succeeded, report.Skipped(), report.Requested)
	for _, skip := range report.Skips {
		cmd.Printf("  skipped %s\n", skip)
	}
}
