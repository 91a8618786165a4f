package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/storage/sqlstore"
	"github.com/jsamuelsen/portfolio-service/internal/app"
)

// passwordEnv is read when --password is omitted, keeping it out of shell history.
const passwordEnv = "PORTFOLIO_ADMIN_PASSWORD"

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger(cfg)

			db, err := openDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			return migrate(cmd.Context(), db, logger)
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}

			if password == "" {
				return errors.New("--password or " + passwordEnv + " is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			ctx := cmd.Context()

			db, err := openDatabase(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrate(ctx, db, logger); err != nil {
				return err
			}

			auth := app.NewAuthService(app.AuthServiceConfig{
				Repo:       sqlstore.NewAccountStore(db),
				TokenTTL:   cfg.Auth.TokenTTL,
				BcryptCost: cfg.Auth.BcryptCost,
			})

			admin, err := auth.CreateAdmin(ctx, username, password)
			if err != nil {
				return fmt.Errorf("creating admin: %w", err)
			}

			logger.Info("admin created", slog.String("username", admin.Username), slog.Int64("id", admin.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", admin.Username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (or set "+passwordEnv+")")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
