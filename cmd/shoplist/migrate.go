package main

import (
	"database/sql"

	"github.com/dukerupert/shoplist/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(database.MigrateDown)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(database.MigrationStatus)
	},
}

func withRawDB(fn func(db *sql.DB) error) error {
	db, err := openDB(false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(db); err != nil {
		return err
	}
	v, err := database.Version(db)
	if err != nil {
		return err
	}
	logger.Info("migrations done", "version", v)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
