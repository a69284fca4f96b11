package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kamaru/internal/app"
	"kamaru/internal/lib/logger/sl"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		log.Info("starting kamaru", slog.String("env", cfg.Env))

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		application, err := app.New(ctx, log, cfg)
		if err != nil {
			cancel()
			return err
		}

		if err := application.BootstrapAdmin(ctx, cfg.AdminBootstrap); err != nil {
			log.Error("admin bootstrap failed", sl.Err(err))
		}
		cancel()

		go func() {
			application.HTTPServer.MustRun()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

		sign := <-stop
		log.Info("stopping application", slog.String("signal", sign.String()))

		application.Stop()

		log.Info("application stopped")

		return nil
	},
}
