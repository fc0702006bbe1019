// Command backend serves the assessment intake and lookup JSON API backing the
// dashboard.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fmpulse/fmpulse/internal/envstruct"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/logging"
	"github.com/fmpulse/fmpulse/internal/mailer"
	"github.com/fmpulse/fmpulse/internal/pprofserver"
	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/fmpulse/fmpulse/internal/store"
	"github.com/joho/godotenv"
)

type application struct {
	logger *slog.Logger
	store  *store.Store
	scorer *scoring.Scorer
	mailer *mailer.Mailer
}

type config struct {
	Addr          string `env:"FMPULSE_BACKEND_ADDR" envDefault:"localhost:4001"`
	SQLiteURL     string `env:"FMPULSE_SQLITE_URL" envDefault:"./fmpulse.sqlite"`
	OpenAIAPIKey  string `env:"FMPULSE_OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"FMPULSE_OPENAI_BASE_URL" envDefault:""`
	SMTPHost      string `env:"FMPULSE_SMTP_HOST" envDefault:""`
	SMTPPort      int    `env:"FMPULSE_SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"FMPULSE_SMTP_USERNAME" envDefault:""`
	SMTPPassword  string `env:"FMPULSE_SMTP_PASSWORD" envDefault:""`
	SMTPFrom      string `env:"FMPULSE_SMTP_FROM" envDefault:"reports@fmpulse.example"`
	DashboardURL  string `env:"FMPULSE_DASHBOARD_URL" envDefault:"http://localhost:4000"`
	PprofPort     string `env:"FMPULSE_PPROF_PORT" envDefault:""`
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	// A missing .env file is fine, the environment may be set by the deployment.
	_ = godotenv.Load()

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "backend failed", errors.SlogError(err))
		os.Exit(1)
	}
}

// run wires the application and serves until the context is cancelled. The
// environment lookup is a parameter so that tests can inject configuration.
func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	pprofserver.Launch(cfg.PprofPort, logger)

	db, err := store.New(cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close store", errors.SlogError(closeErr))
		}
	}()

	app := &application{
		logger: logger,
		store:  db,
		scorer: scoring.New(scoring.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		}, logger),
		mailer: mailer.New(mailer.Config{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			Username:     cfg.SMTPUsername,
			Password:     cfg.SMTPPassword,
			From:         cfg.SMTPFrom,
			DashboardURL: cfg.DashboardURL,
		}, logger),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}
