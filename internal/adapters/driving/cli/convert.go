package cli

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/cleaners/namespace"
	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/services"
	"github.com/Jasgro/decipher-finetune/internal/encoders/conversation"
	"github.com/Jasgro/decipher-finetune/internal/splitters/question"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Encode question records as conversation training examples",
	Long: `Encode extracted question records into conversation-format training
examples. Questions without usable content are skipped and counted,
never emitted empty.

Formats:
  sharegpt  {"conversations":[{"from":"human",...},{"from":"gpt",...}]} (default)
  chatml    {"messages":[{"role":"user",...},{"role":"assistant",...}]}

Examples:
  decipher-finetune convert --in questions.jsonl --out dataset.jsonl
  decipher-finetune convert --in questions.jsonl --out dataset.json --array --metadata
  decipher-finetune convert --in questions.jsonl --out dataset.jsonl --format chatml`,
	RunE: runConvert,
}

var (
	convertInputFile  string
	convertOutputFile string
	convertFormat     string
	convertMetadata   bool
	convertArray      bool
	convertSystem     string
)

func init() {
	convertCmd.Flags().StringVarP(&convertInputFile, "in", "i", "", "Input JSONL file of question records (required)")
	convertCmd.Flags().StringVarP(&convertOutputFile, "out", "o", "", "Output dataset file (required)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "Conversation format: sharegpt or chatml")
	convertCmd.Flags().BoolVar(&convertMetadata, "metadata", false, "Attach provenance metadata to each example")
	convertCmd.Flags().BoolVar(&convertArray, "array", false, "Write a single JSON array instead of JSONL")
	convertCmd.Flags().StringVar(&convertSystem, "system", "", "System prompt prepended to every example")
	_ = convertCmd.MarkFlagRequired("in")
	_ = convertCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	if fileStore == nil {
		return errors.New("file store not configured")
	}

	cfg, err := activeConfig()
	if err != nil {
		return err
	}

	formatName := convertFormat
	if formatName == "" {
		formatName = cfg.Format
	}
	format, err := conversation.ParseFormat(formatName)
	if err != nil {
		return err
	}

	raw, err := fileStore.ReadFile(convertInputFile)
	if err != nil {
		return err
	}
	questions, err := question.ReadJSONL(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	encoder := conversation.New(conversation.Options{
		Format:          format,
		IncludeMetadata: convertMetadata,
		SystemPrompt:    convertSystem,
	})
	svc := services.NewTransformService(fileStore, namespace.New(), question.New(), encoder)

	examples, report, err := svc.EncodeAll(cmd.Context(), questions)
	if err != nil {
		return err
	}

	refs := make([]*domain.ConversationExample, len(examples))
	for i := range examples {
		refs[i] = &examples[i]
	}

	var buf bytes.Buffer
	if convertArray {
		err = conversation.WriteArray(&buf, format, refs)
	} else {
		err = conversation.WriteJSONL(&buf, format, refs)
	}
	if err != nil {
		return err
	}
	if err := fileStore.WriteAtomic(convertOutputFile, buf.Bytes()); err != nil {
		return err
	}

	cmd.Printf("%d example(s) written to %s (%s)\n", len(examples), convertOutputFile, format)
	printReport(cmd, report)
	return nil
}
