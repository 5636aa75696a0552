// Command mfad serves the MFA API over HTTP.
//
// Configuration comes from the environment (and a .env file when present).
// Postgres and Redis are optional: without PG_CONN_URL users live in memory,
// without REDIS_URL spent temp tokens are tracked in memory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mfahttp "github.com/dmitrymomot/mfakit/modules/mfa"
	"github.com/dmitrymomot/mfakit/pkg/clientip"
	"github.com/dmitrymomot/mfakit/pkg/config"
	"github.com/dmitrymomot/mfakit/pkg/email"
	"github.com/dmitrymomot/mfakit/pkg/httpserver"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/pg"
	"github.com/dmitrymomot/mfakit/pkg/redis"
	"github.com/dmitrymomot/mfakit/pkg/requestid"
	"github.com/dmitrymomot/mfakit/pkg/store/memory"
	"github.com/dmitrymomot/mfakit/pkg/store/postgres"
	redisstore "github.com/dmitrymomot/mfakit/pkg/store/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("mfad failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadApp()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	checks := make(map[string]httpserver.CheckFunc)
	opts := []mfa.Option{mfa.WithLogger(log)}

	var store mfa.CredentialStore = memory.New()
	if cfg.Postgres.Enabled() {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Postgres.AutoMigrate {
			if err := pg.Migrate(ctx, pool, postgres.Migrations(), cfg.Postgres, log); err != nil {
				return err
			}
		}
		store = postgres.New(pool)
		checks["postgres"] = pg.Healthcheck(pool)
	} else {
		log.WarnContext(ctx, "PG_CONN_URL not set, users are kept in memory")
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		opts = append(opts, mfa.WithSpentTokens(redisstore.NewSpentTokens(client, cfg.Redis.KeyPrefix)))
		checks["redis"] = redis.Healthcheck(client)
	}

	deliverer, err := email.NewDeliverer(cfg.Email, cfg.MFA.EmailOTPTTL, log)
	if err != nil {
		return err
	}
	opts = append(opts, mfa.WithDeliverer(deliverer))

	svc, err := mfa.NewService(store, cfg.MFA, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(cfg.TrustProxy))
	r.Use(middleware.Recoverer)
	r.Mount("/", mfahttp.Router(svc, mfahttp.RouterOptions{
		Logger:       log,
		HealthChecks: checks,
	}))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func newLogger(cfg config.App) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("%w: LOG_LEVEL: %w", config.ErrInvalidConfig, err)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...), nil
}
