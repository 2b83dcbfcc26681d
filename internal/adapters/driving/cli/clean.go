package cli

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/cleaners/namespace"
	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/core/services"
	"github.com/Jasgro/decipher-finetune/internal/encoders/conversation"
	"github.com/Jasgro/decipher-finetune/internal/splitters/question"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalise XML namespaces in survey exports",
	Long: `Rewrite survey XML so every namespace URI has one canonical prefix,
declared once on the root element. Unused declarations are dropped and
platform namespaces are stripped entirely. Cleaning is idempotent.

The input may be a directory of XML files or a single file. Files that
fail to parse are skipped and reported; they do not fail the batch.

Examples:
  decipher-finetune clean --in raw/ --out clean/
  decipher-finetune clean --in raw/demo--s1.survey.xml --out clean/
  decipher-finetune clean --in raw/ --out clean/ --strip-uri http://example.com/`,
	RunE: runClean,
}

var (
	cleanInput     string
	cleanOutputDir string
	cleanStripURIs []string
)

func init() {
	cleanCmd.Flags().StringVarP(&cleanInput, "in", "i", "", "Input directory or XML file (required)")
	cleanCmd.Flags().StringVarP(&cleanOutputDir, "out", "o", "", "Output directory (required)")
	cleanCmd.Flags().StringArrayVar(&cleanStripURIs, "strip-uri", nil,
		"Namespace URI prefix to strip entirely (repeatable, default "+namespace.DefaultStripURI+")")
	_ = cleanCmd.MarkFlagRequired("in")
	_ = cleanCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(cleanCmd)
}

// resolveStripURIs picks the strip list: flag over config over default.
func resolveStripURIs(cfg *driven.Config, flagURIs []string) []string {
	if len(flagURIs) > 0 {
		return flagURIs
	}
	if len(cfg.StripURIs) > 0 {
		return cfg.StripURIs
	}
	return []string{namespace.DefaultStripURI}
}

func newTransformService(cleaner driven.Cleaner) *services.TransformService {
	return services.NewTransformService(fileStore, cleaner, question.New(), conversation.New(conversation.Options{}))
}

func runClean(cmd *cobra.Command, _ []string) error {
	if fileStore == nil {
		return errors.New("file store not configured")
	}

	cfg, err := activeConfig()
	if err != nil {
		return err
	}

	cleaner := namespace.New(namespace.WithStripURIs(resolveStripURIs(cfg, cleanStripURIs)...))

	// Single-file mode for spot cleaning one export.
	if strings.HasSuffix(cleanInput, ".xml") && fileStore.Exists(cleanInput) {
		raw, err := fileStore.ReadFile(cleanInput)
		if err != nil {
			return err
		}

		report := &domain.BatchReport{Requested: 1}
		cleaned, err := cleaner.Clean(cmd.Context(), &domain.SurveyDocument{Raw: raw})
		if err != nil {
			report.AddSkip(filepath.Base(cleanInput), domain.SkipParse, err.Error())
			printReport(cmd, report)
			return nil
		}

		outPath := filepath.Join(cleanOutputDir, filepath.Base(cleanInput))
		if err := fileStore.WriteAtomic(outPath, cleaned.Raw); err != nil {
			return err
		}
		report.AddSuccess()
		printReport(cmd, report)
		return nil
	}

	report, err := newTransformService(cleaner).CleanAll(cmd.Context(), cleanInput, cleanOutputDir)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}
