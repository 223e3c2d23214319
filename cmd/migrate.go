package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var (
	migrationsDir     string
	migrateClickHouse bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.PoolOptsFrom(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		if _, err := sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
			return fmt.Errorf("disable fk checks: %w", err)
		}
		if err := execFile(sqlDB, filepath.Join(migrationsDir, "mysql", "001_init.sql")); err != nil {
			_, _ = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")
			return err
		}
		if _, err := sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
			return fmt.Errorf("enable fk checks: %w", err)
		}
		fmt.Println(">> MySQL migration complete")

		if !migrateClickHouse {
			return nil
		}
		if !cfg.ClickHouse.Enabled() {
			return fmt.Errorf("--clickhouse given but clickhouse.dsn is empty")
		}
		chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer chDB.Close()

		if err := execFile(chDB, filepath.Join(migrationsDir, "clickhouse", "001_customer_events.sql")); err != nil {
			return err
		}
		fmt.Println(">> ClickHouse migration complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "directory holding mysql/ and clickhouse/ migrations")
	migrateCmd.Flags().BoolVar(&migrateClickHouse, "clickhouse", false, "also migrate the ClickHouse audit store")
}

// execFile runs a migration file in one Exec; the MySQL DSN enables multiStatements.
func execFile(conn *sqlx.DB, path string) error {
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", path, err)
	}
	if _, err := conn.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("exec migration %s: %w", path, err)
	}
	return nil
}
