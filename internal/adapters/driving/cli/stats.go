package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/services"
	"github.com/Jasgro/decipher-finetune/internal/encoders/conversation"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise a produced dataset",
	Long: `Fold over a dataset file and print aggregate statistics: example,
survey and sub-item counts, turn totals, and the per-survey distribution.
Counts are always recomputed from the file.

Examples:
  decipher-finetune stats --data dataset.jsonl
  decipher-finetune stats --data dataset.jsonl --format chatml
  decipher-finetune stats --runs`,
	RunE: runStats,
}

var (
	statsDataFile string
	statsFormat   string
	statsRuns     bool
)

// statsTop bounds the per-survey distribution listing.
const statsTop = 10

var (
	statsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	statsLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	statsWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

func init() {
	statsCmd.Flags().StringVar(&statsDataFile, "data", "", "Dataset file to summarise")
	statsCmd.Flags().StringVar(&statsFormat, "format", "", "Conversation format of the dataset: sharegpt or chatml")
	statsCmd.Flags().BoolVar(&statsRuns, "runs", false, "List recorded fetch runs instead")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsRuns {
		return runStatsRuns(cmd)
	}
	if statsDataFile == "" {
		return fmt.Errorf("%w: --data or --runs is required", domain.ErrInvalidInput)
	}
	if fileStore == nil {
		return errors.New("file store not configured")
	}

	cfg, err := activeConfig()
	if err != nil {
		return err
	}

	formatName := statsFormat
	if formatName == "" {
		formatName = cfg.Format
	}
	format, err := conversation.ParseFormat(formatName)
	if err != nil {
		return err
	}

	svc := services.NewStatsService(fileStore, func(data []byte) ([]*domain.ConversationExample, error) {
		return conversation.ReadDataset(bytes.NewReader(data), format)
	})

	summary, err := svc.Summarize(cmd.Context(), statsDataFile)
	if err != nil {
		return err
	}

	cmd.Println(statsTitleStyle.Render("Dataset summary"))
	cmd.Printf("%s %d\n", statsLabelStyle.Render("Examples:"), summary.ExamplesProduced)
	cmd.Printf("%s %d\n", statsLabelStyle.Render("Surveys:"), summary.SurveysProcessed)
	cmd.Printf("%s %d\n", statsLabelStyle.Render("Sub-item questions:"), summary.QuestionsSplit)
	cmd.Printf("%s %d\n", statsLabelStyle.Render("Turns:"), summary.TotalTurns)

	if summary.SurveysProcessed == 0 && summary.ExamplesProduced > 0 {
		cmd.Println(statsWarnStyle.Render("No survey provenance found; convert with --metadata to track surveys."))
	}

	if top := summary.TopSurveys(statsTop); len(top) > 0 {
		cmd.Println()
		cmd.Println(statsTitleStyle.Render("Examples per survey"))
		for _, id := range top {
			cmd.Printf("  %-40s %d\n", id, summary.PerSurvey[id])
		}
	}

	return nil
}

func runStatsRuns(cmd *cobra.Command) error {
	if runStore == nil {
		return errors.New("run store not configured")
	}

	runs, err := runStore.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Println(statsTitleStyle.Render("Recorded runs"))
	for _, run := range runs {
		state := "running"
		if !run.FinishedAt.IsZero() {
			state = "finished"
		}
		cmd.Printf("  %s  %-6s %-9s %d succeeded, %d skipped  (%s)\n",
			run.ID, run.Kind, state, run.Succeeded, run.Skipped,
			run.StartedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}
