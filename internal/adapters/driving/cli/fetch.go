package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/core/ports/driving"
	"github.com/Jasgro/decipher-finetune/internal/core/services"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [titles...]",
	Short: "Download survey XML exports",
	Long: `Download survey XML exports from the Decipher API.

Surveys are selected by exact title match (case-insensitive) against the
listing endpoint, or directly by survey path with --id. Titles matching
no survey or more than one survey are skipped and reported; they do not
fail the batch.

Examples:
  decipher-finetune fetch "Brand Tracker 2024" --out raw/
  decipher-finetune fetch --id selfserve/9d3/proj001 --out raw/
  decipher-finetune fetch "Wave 1" "Wave 2" --out raw/ -n 5
  decipher-finetune fetch "Wave 1" --out raw/ --resume <run-id>`,
	RunE: runFetch,
}

var (
	fetchIDs         []string
	fetchOutputDir   string
	fetchConcurrency int
	fetchResumeRun   string
)

func init() {
	fetchCmd.Flags().StringArrayVar(&fetchIDs, "id", nil, "Survey path to download directly (repeatable)")
	fetchCmd.Flags().StringVarP(&fetchOutputDir, "out", "o", "", "Output directory for survey XML files (required)")
	fetchCmd.Flags().IntVarP(&fetchConcurrency, "concurrency", "n", 0, "Parallel downloads (default 3)")
	fetchCmd.Flags().StringVar(&fetchResumeRun, "resume", "", "Resume a previous run, skipping downloaded surveys")
	_ = fetchCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fileStore == nil || newSurveyAPI == nil {
		return errors.New("fetch dependencies not configured")
	}

	cfg, err := activeConfig()
	if err != nil {
		return err
	}
	apiKey, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}

	concurrency := fetchConcurrency
	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}

	api := newSurveyAPI(apiKey, cfg.BaseURL)
	svc := services.NewFetchService(api, fileStore, runStore)

	report, err := svc.Fetch(cmd.Context(), driving.FetchRequest{
		Titles:      args,
		Paths:       fetchIDs,
		OutputDir:   fetchOutputDir,
		Concurrency: concurrency,
		ResumeRunID: fetchResumeRun,
	})
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}
