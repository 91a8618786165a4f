// Package main is the entry point for the portfolio service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/storage/sqlstore"
	"github.com/jsamuelsen/portfolio-service/internal/platform/config"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// CLI flags
var (
	configDir string
	profile   string
	envFile   string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio backend API",
		Long:          `Serves the portfolio content API, the quote of the day and the admin endpoints.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "Directory holding base.yaml and the profile files")
	root.PersistentFlags().StringVar(&profile, "profile", "", "Config profile (defaults to APP_ENVIRONMENT, then local)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment is read")

	root.AddCommand(
		serve,
		newMigrateCommand(),
		newCreateAdminCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
			},
		},
	)

	return root
}

// loadConfig reads the dotenv file, then the layered configuration, and
// validates it.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	p := profile
	if p == "" {
		p = os.Getenv("APP_ENVIRONMENT")
	}

	if p == "" {
		p = "local"
	}

	cfg, err := config.Load(configDir, p)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	return logger
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlstore.DB, error) {
	db, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func migrate(ctx context.Context, db *sqlstore.DB, logger *slog.Logger) error {
	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	logger.Info("database migrated", slog.Int("applied", applied), slog.Int("schema_version", version))

	return nil
}
