// Package cli implements the foodgram management commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	// Open connects to the configured database. Tests replace it.
	Open func() (*gorm.DB, *config.Config, error)
}

// NewRootCommand creates the root command for the management CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Open: openConfigured})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manage",
		Short:         "Foodgram management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewLoadIngredientsCommand(opts))
	cmd.AddCommand(NewLoadTagsCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	return cmd
}

func openConfigured() (*gorm.DB, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	db, err := database.New(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
