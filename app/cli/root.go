// Package cli is the libraryapi command line: serve, migrate and create-admin.
package cli

import (
	"context"
	"log/slog"
	"os"

	"libraryapi/config"
	"libraryapi/util/database"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "libraryapi",
	Short:         "Library management REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml); env vars override it")
	rootCmd.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())
}

func loadConfig() (config.App, error) {
	v, err := config.New(configFile)
	if err != nil {
		return config.App{}, err
	}
	return config.Load(v)
}

func newLogger(cfg config.App) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)
	return log
}

func openDB(ctx context.Context, cfg config.App) (*database.DB, error) {
	return database.New(ctx, database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxConns,
	})
}

func warnDevSecret(log *slog.Logger, cfg config.App) {
	if cfg.UsesDevSecret() {
		log.Warn("JWT_SECRET is unset; tokens are signed with the public dev secret",
			"app_env", cfg.Env)
	}
}

// setup loads config, installs the logger and opens the database.
func setup(ctx context.Context) (config.App, *slog.Logger, *database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.App{}, nil, nil, err
	}
	log := newLogger(cfg)
	warnDevSecret(log, cfg)
	db, err := openDB(ctx, cfg)
	if err != nil {
		log.Error("db connect failed", "driver", cfg.DBDriver, "err", err)
		return config.App{}, nil, nil, err
	}
	return cfg, log, db, nil
}
