package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pg "backoffice/internal/adapters/postgres"
	"backoffice/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down|status",
	Short:     "Apply, roll back or inspect the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return config.ErrNoDatabaseURL
		}
		db, err := pg.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		return db.Migrate(cmd.Context(), args[0], logger)
	},
}
