package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bagdasarian/study-groups/internal/config"
	"github.com/bagdasarian/study-groups/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(
		newMigrationCmd("up", "Apply all pending migrations", db.RunMigrations),
		newMigrationCmd("down", "Roll back the latest migration", db.RollbackMigration),
		newMigrationCmd("status", "Show migration status", db.MigrationStatus),
	)

	return cmd
}

func newMigrationCmd(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := db.NewPostgres(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer database.Close()

			if err := run(cmd.Context(), database); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}
