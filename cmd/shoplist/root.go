package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukerupert/shoplist/internal/config"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "shoplist",
	Short:         "Personal shopping list server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// openDB opens the configured database. With migrate false the schema is
// left as found.
func openDB(migrate bool) (*sql.DB, error) {
	open := database.OpenRaw
	if migrate {
		open = database.Open
	}
	db, err := open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return db, nil
}
