package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/clients"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/flags"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/storage/sqlstore"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/platform/config"
	"github.com/jsamuelsen/portfolio-service/internal/platform/metrics"
	"github.com/jsamuelsen/portfolio-service/internal/platform/scheduler"
	"github.com/jsamuelsen/portfolio-service/internal/platform/telemetry"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

const healthCheckTimeout = 2 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// 1. Load and validate configuration (fail fast)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := newLogger(cfg)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Open the database and bring the schema up to date
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	// 5. Health registry and metrics
	healthRegistry := ports.NewHealthRegistry(healthCheckTimeout)
	if err := healthRegistry.Register(db); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// 6. Optional upstream quote source (ACL pattern)
	quoteSource, err := newQuoteSource(cfg, logger)
	if err != nil {
		return err
	}

	if quoteSource != nil {
		if err := healthRegistry.RegisterOptional(quoteSource); err != nil {
			return fmt.Errorf("registering quote source health check: %w", err)
		}
	}

	// 7. Application services
	services, auth := newServices(cfg, db, quoteSource, appMetrics)

	// 8. HTTP server and router
	server := http.New(&cfg.Server, logger, cfg.App.Environment == "local")

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:    cfg.App.Name,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORS:           cfg.CORS,
		HealthHandler: handlers.NewHealthHandler(healthRegistry,
			handlers.NewBuildInfo(Version, Commit, BuildTime), nil),
		Services: services,
	})

	// 9. Background jobs
	jobs := scheduler.New(logger, appMetrics)
	if cfg.Scheduler.Enabled {
		err := jobs.Add(scheduler.Job{
			Name: "token_purge",
			Spec: cfg.Scheduler.TokenPurge,
			Run: func(ctx context.Context) error {
				purged, err := auth.PurgeExpired(ctx)
				if err != nil {
					return err
				}

				slog.InfoContext(ctx, "expired tokens purged", slog.Int64("count", purged))

				return nil
			},
		})
		if err != nil {
			return err
		}
	}

	jobs.Start()

	// 10. Start server (non-blocking) and wait for a signal
	serverErr := server.Start()

	return waitForShutdown(logger, server, jobs, serverErr, cfg.Server.ShutdownTimeout)
}

func newQuoteSource(cfg *config.Config, logger *slog.Logger) (*acl.QuoteSource, error) {
	upstream := cfg.Services.Quotes
	if !upstream.Enabled {
		return nil, nil
	}

	client, err := clients.New(clients.Config{
		BaseURL:     upstream.BaseURL,
		ServiceName: upstream.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", upstream.Name, err)
	}

	return acl.NewQuoteSource(client, upstream.Name), nil
}

func newServices(
	cfg *config.Config,
	db *sqlstore.DB,
	quoteSource *acl.QuoteSource,
	m *metrics.Metrics,
) (*http.Services, *app.AuthService) {
	featureFlags := flags.NewStatic(cfg.Features)

	// A nil *acl.QuoteSource must stay a nil interface.
	var source ports.QuoteSource
	if quoteSource != nil {
		source = quoteSource
	}

	blogs := app.NewBlogService(sqlstore.NewBlogStore(db))
	projects := app.NewProjectService(sqlstore.NewProjectStore(db))
	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Repo:     sqlstore.NewQuoteStore(db),
		Source:   source,
		Flags:    featureFlags,
		Metrics:  m,
		Location: cfg.Quote.Location(),
	})
	auth := app.NewAuthService(app.AuthServiceConfig{
		Repo:       sqlstore.NewAccountStore(db),
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Metrics:    m,
	})

	return &http.Services{
		Blogs:        blogs,
		Projects:     projects,
		Certificates: app.NewCertificateService(sqlstore.NewCertificateStore(db)),
		Gallery:      app.NewGalleryService(sqlstore.NewAlbumStore(db), sqlstore.NewPhotoStore(db)),
		Contacts: app.NewContactService(app.ContactServiceConfig{
			Repo:    sqlstore.NewContactStore(db),
			Flags:   featureFlags,
			Metrics: m,
		}),
		Quotes: quotes,
		Home:   app.NewHomeService(blogs, projects, quotes),
		Auth:   auth,
	}, auth
}

// waitForShutdown blocks until a shutdown signal is received or the server
// fails. It then drains the HTTP server and stops the scheduler.
func waitForShutdown(
	logger *slog.Logger,
	server *http.Server,
	jobs *scheduler.Scheduler,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error

	select {
	case err := <-serverErr:
		runErr = err

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("server shutdown: %w", err)
	}

	if err := jobs.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler did not stop cleanly", slog.Any("error", err))
	}

	if runErr != nil {
		return runErr
	}

	logger.Info("shutdown complete")

	return nil
}
