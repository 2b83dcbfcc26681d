package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jasgro/decipher-finetune/internal/cleaners/namespace"
	"github.com/Jasgro/decipher-finetune/internal/core/services"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify cleaned survey XML",
	Long: `Re-clean every file in a directory of cleaned survey XML and check
two properties: cleaning must be idempotent (a second pass changes
nothing) and stripped namespace declarations must not remain.

Examples:
  decipher-finetune verify --in clean/
  decipher-finetune verify --in clean/ --strip-uri http://example.com/`,
	RunE: runVerify,
}

var (
	verifyInputDir  string
	verifyStripURIs []string
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyInputDir, "in", "i", "", "Directory of cleaned survey XML files (required)")
	verifyCmd.Flags().StringArrayVar(&verifyStripURIs, "strip-uri", nil,
		"Namespace URI prefix that must not appear (repeatable, default "+namespace.DefaultStripURI+")")
	_ = verifyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	if fileStore == nil {
		return errors.New("file store not configured")
	}

	cfg, err := activeConfig()
	if err != nil {
		return err
	}

	uris := resolveStripURIs(cfg, verifyStripURIs)
	cleaner := namespace.New(namespace.WithStripURIs(uris...))

	svc := services.NewVerifyService(fileStore, cleaner, func(raw []byte) bool {
		for _, uri := range uris {
			if namespace.HasDeclarationFor(raw, uri) {
				return true
			}
		}
		return false
	})

	result, err := svc.VerifyCleaned(cmd.Context(), verifyInputDir)
	if err != nil {
		return err
	}

	cmd.Printf("%d file(s) checked\n", result.Checked)
	for _, name := range result.NotIdempotent {
		cmd.Printf("  not idempotent: %s\n", name)
	}
	for _, name := range result.ResidualDeclarations {
		cmd.Printf("  residual declarations: %s\n", name)
	}

	if len(result.NotIdempotent) > 0 || len(result.ResidualDeclarations) > 0 {
		return fmt.Errorf("verification failed: %d file(s) not idempotent, %d with residual declarations",
			len(result.NotIdempotent), len(result.ResidualDeclarations))
	}

	cmd.Println("OK")
	return nil
}
