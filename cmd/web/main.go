package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/alexedwards/scs/v2"
	htmx "github.com/donseba/go-htmx"
	"github.com/fmpulse/fmpulse/internal/envstruct"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/logging"
	"github.com/fmpulse/fmpulse/internal/lookup"
	"github.com/fmpulse/fmpulse/internal/narrative"
	"github.com/fmpulse/fmpulse/internal/pprofserver"
	"github.com/joho/godotenv"
)

type application struct {
	logger         *slog.Logger
	lookups        *lookup.Client
	narratives     *narrative.Client
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	lookupURL      string
	relayClient    *http.Client
}

type config struct {
	Addr             string `env:"FMPULSE_ADDR" envDefault:"localhost:4000"`
	SessionSQLiteURL string `env:"FMPULSE_SESSION_SQLITE_URL" envDefault:"./fmpulse-sessions.sqlite"`
	LookupURL        string `env:"FMPULSE_LOOKUP_URL" envDefault:""`
	OpenAIAPIKey     string `env:"FMPULSE_OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL    string `env:"FMPULSE_OPENAI_BASE_URL" envDefault:""`
	PprofPort        string `env:"FMPULSE_PPROF_PORT" envDefault:""`
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
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
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

	sessionManager, err := openSessionManager(cfg.SessionSQLiteURL)
	if err != nil {
		return errors.Wrap(err, "open session manager")
	}

	app := &application{
		logger:  logger,
		lookups: lookup.New(lookup.Config{BaseURL: cfg.LookupURL}, logger),
		narratives: narrative.New(narrative.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		}, logger),
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		lookupURL:      cfg.LookupURL,
		relayClient:    &http.Client{Timeout: relayTimeout},
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}
