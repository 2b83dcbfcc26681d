package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Decipher API credentials",
	Long: `Store and inspect the Decipher API key.

The key is sent in the x-apikey request header. Resolution order:
  1. ` + envAPIKey + ` environment variable
  2. the config file written by 'auth set'

Examples:
  decipher-finetune auth set
  decipher-finetune auth set --key <api-key>
  decipher-finetune auth status
  decipher-finetune auth status --check`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API key in the config file",
	RunE:  runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	RunE:  runAuthStatus,
}

var (
	authSetKey      string
	authStatusCheck bool
)

func init() {
	authSetCmd.Flags().StringVar(&authSetKey, "key", "", "API key (prompted securely when omitted)")
	authStatusCmd.Flags().BoolVar(&authStatusCheck, "check", false, "Validate the key against the API")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := authSetKey
	if key == "" {
		cmd.Print("API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		key = strings.TrimSpace(string(raw))
	}
	if key == "" {
		return fmt.Errorf("%w: empty API key", domain.ErrInvalidInput)
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}
	cfg.APIKey = key
	if err := configStore.Save(cfg); err != nil {
		return err
	}

	cmd.Printf("API key saved to %s\n", configStore.Path())
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	source := "not set"
	switch {
	case os.Getenv(envAPIKey) != "":
		source = envAPIKey + " environment variable"
	case configStore != nil:
		cfg, err := configStore.Load()
		if err != nil {
			return err
		}
		if cfg.APIKey != "" {
			source = "config file " + configStore.Path()
		}
	}

	cmd.Printf("API key: %s\n", source)
	if source == "not set" {
		return nil
	}

	if authStatusCheck {
		if newSurveyAPI == nil {
			return errors.New("api client not configured")
		}
		cfg, err := activeConfig()
		if err != nil {
			return err
		}
		api := newSurveyAPI(cfg.APIKey, cfg.BaseURL)
		if err := api.ValidateCredentials(cmd.Context()); err != nil {
			return fmt.Errorf("credential check failed: %w", err)
		}
		cmd.Println("Credential check: OK")
	}

	return nil
}
