package cli

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/cleaners/namespace"
	"github.com/Jasgro/decipher-finetune/internal/splitters/question"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Extract question records from cleaned survey XML",
	Long: `Extract one question record per survey question, decomposing
composite (matrix/grid) questions into one record per sub-item based on
the Q5 -> Q5_1, Q5_2 naming convention. Questions whose rows only
partially follow the convention are skipped and reported rather than
guessed at.

The output is a JSONL file consumed by 'convert'.

Examples:
  decipher-finetune split --in clean/ --out questions.jsonl`,
	RunE: runSplit,
}

var (
	splitInputDir   string
	splitOutputFile string
)

func init() {
	splitCmd.Flags().StringVarP(&splitInputDir, "in", "i", "", "Directory of cleaned survey XML files (required)")
	splitCmd.Flags().StringVarP(&splitOutputFile, "out", "o", "", "Output JSONL file of question records (required)")
	_ = splitCmd.MarkFlagRequired("in")
	_ = splitCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, _ []string) error {
	if fileStore == nil {
		return errors.New("file store not configured")
	}

	svc := newTransformService(namespace.New())

	questions, report, err := svc.SplitAll(cmd.Context(), splitInputDir)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := question.WriteJSONL(&buf, questions); err != nil {
		return err
	}
	if err := fileStore.WriteAtomic(splitOutputFile, buf.Bytes()); err != nil {
		return err
	}

	cmd.Printf("%d question(s) written to %s\n", len(questions), splitOutputFile)
	printReport(cmd, report)
	return nil
}
