// Package main is the schema migration tool for the qooqz admin API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/ibdaa1/qooqz/internal/config"
	"github.com/ibdaa1/qooqz/internal/data"
	"github.com/ibdaa1/qooqz/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	pool *pgxpool.Pool
	db   *sql.DB
)

var rootCmd = &cobra.Command{
	Use:               "migrate",
	Short:             "Database migration tool for the qooqz admin API",
	Long:              `Manages the PostgreSQL schema of the qooqz admin API using the embedded goose migrations.`,
	SilenceUsage:      true,
	PersistentPreRunE: openDatabase,
	PersistentPostRun: closeDatabase,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := data.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info(cmd.Context(), "migrations applied")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return data.Rollback(cmd.Context(), db)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return data.Status(cmd.Context(), db)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := data.Version(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, statusCmd, versionCmd)
}

func openDatabase(cmd *cobra.Command, _ []string) error {
	logger.InitLogging()
	conf, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err = data.NewPostgresPool(cmd.Context(), conf)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	db = data.OpenSQL(pool)
	return nil
}

func closeDatabase(_ *cobra.Command, _ []string) {
	if db != nil {
		_ = db.Close()
	}
	if pool != nil {
		pool.Close()
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
