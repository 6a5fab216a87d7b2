package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmehdipour/jokecast/internal/app"
	"github.com/jmehdipour/jokecast/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create MySQL and ClickHouse tables (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := app.Bootstrap(cfgPath)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		stores, err := app.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmd.Context()
		if err := runMigration(ctx, log, stores.MySQL, filepath.Join(migrationsDir, "001_init.sql")); err != nil {
			return err
		}
		if stores.ClickHouse != nil {
			if err := runMigration(ctx, log, stores.ClickHouse, filepath.Join(migrationsDir, "clickhouse", "001_messages.sql")); err != nil {
				return err
			}
		} else {
			log.Warn("clickhouse not configured, message log table skipped")
		}

		log.Info("migration complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "directory holding the migration scripts")
}

func runMigration(ctx context.Context, log *zap.Logger, dbx *sqlx.DB, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", path, err)
	}
	n, err := db.Migrate(ctx, dbx, string(script))
	if err != nil {
		return fmt.Errorf("exec migration %s: %w", path, err)
	}
	log.Info("migration applied", zap.String("file", path), zap.Int("statements", n))
	return nil
}
