package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"kamaru/internal/storage/postgresql"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		if err := postgresql.MigrateUp(cfg.Postgres.DSN); err != nil {
			return err
		}

		return logVersion(log, cfg.Postgres.DSN)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, one step by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		if err := postgresql.MigrateDown(cfg.Postgres.DSN, steps); err != nil {
			return err
		}

		return logVersion(log, cfg.Postgres.DSN)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func logVersion(log *slog.Logger, dsn string) error {
	version, dirty, err := postgresql.Version(dsn)
	if err != nil {
		return err
	}

	log.Info("schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
