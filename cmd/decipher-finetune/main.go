// Command decipher-finetune builds fine-tuning datasets from Decipher
// survey exports.
package main

import (
	"fmt"
	"os"

	configfile "github.com/Jasgro/decipher-finetune/internal/adapters/driven/config/file"
	storagefile "github.com/Jasgro/decipher-finetune/internal/adapters/driven/storage/file"
	"github.com/Jasgro/decipher-finetune/internal/adapters/driven/storage/sqlite"
	"github.com/Jasgro/decipher-finetune/internal/adapters/driving/cli"
	"github.com/Jasgro/decipher-finetune/internal/connectors/decipher"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	// Run bookkeeping is best effort: without it fetch still works, it
	// just cannot resume.
	var runStore driven.RunStore
	if store, err := sqlite.NewStore(""); err != nil {
		logger.Warn("run store unavailable, resume disabled: %v", err)
	} else {
		defer store.Close()
		runStore = store.RunStore()
	}

	cli.Configure(cli.Dependencies{
		ConfigStore: configStore,
		Files:       storagefile.NewStore(),
		Runs:        runStore,
		NewSurveyAPI: func(apiKey, baseURL string) driven.SurveyAPI {
			var opts []decipher.Option
			if baseURL != "" {
				opts = append(opts, decipher.WithBaseURL(baseURL))
			}
			return decipher.NewClient(apiKey, opts...)
		},
	})

	return cli.Execute()
}
