package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kamaru/internal/repository"
	users "kamaru/internal/services/user_service"
	"kamaru/internal/storage/postgresql"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account unless the email is already registered",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		storage, err := postgresql.New(ctx, log, postgresql.Options{
			DSN:             cfg.Postgres.DSN,
			ConnectAttempts: cfg.Postgres.ConnectAttempts,
			ConnectDelay:    cfg.Postgres.ConnectDelay,
			MaxConns:        cfg.Postgres.MaxConns,
		})
		if err != nil {
			return err
		}
		defer storage.Stop()

		if err := postgresql.MigrateUp(cfg.Postgres.DSN); err != nil {
			return err
		}

		username := adminUsername
		if username == "" {
			username = "admin"
		}

		// Registration does not touch tokens or email.
		service := users.NewUserService(log, repository.NewUserRepository(storage.Pool), nil, nil)

		user, created, err := service.EnsureAdmin(ctx, username, adminEmail, adminPassword)
		if err != nil {
			return err
		}

		if created {
			log.Info("admin account created", slog.String("id", user.ID.String()), slog.String("email", user.Email))
		} else {
			log.Info("user already exists", slog.String("email", user.Email), slog.Bool("is_admin", user.IsAdmin))
		}

		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username (default \"admin\")")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
}
