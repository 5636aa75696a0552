package config

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/mfakit/pkg/email"
	"github.com/dmitrymomot/mfakit/pkg/httpserver"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/pg"
	"github.com/dmitrymomot/mfakit/pkg/redis"
	"github.com/dmitrymomot/mfakit/pkg/validator"
)

// App is the full mfad configuration.
type App struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"mfad"`
	LogLevel    string `env:"LOG_LEVEL"` // overrides the environment's default level
	TrustProxy  bool   `env:"HTTP_TRUST_PROXY" envDefault:"false"`

	MFA      mfa.Config
	Postgres pg.Config
	Redis    redis.Config
	Email    email.Config
	HTTP     httpserver.Config
}

// LoadApp loads and validates App.
func LoadApp() (App, error) {
	var cfg App
	if err := Load(&cfg); err != nil {
		return App{}, err
	}
	if err := cfg.Validate(); err != nil {
		return App{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would only fail later at runtime.
func (a App) Validate() error {
	drivers := []email.Driver{email.DriverPostmark, email.DriverFile, email.DriverLog}
	envs := []string{logger.Development, logger.Staging, logger.Production}

	err := validator.Apply(
		validator.OneOf("APP_ENV", a.Env, envs),
		validator.OneOf("EMAIL_DRIVER", a.Email.Driver, drivers),
		minLen("MFA_SIGNING_KEY", a.MFA.SigningKey, 32),
	)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if a.Env == logger.Production && a.Email.Driver == email.DriverLog {
		return fmt.Errorf("%w: EMAIL_DRIVER=log is not allowed in production", ErrInvalidConfig)
	}
	return nil
}

func minLen(field, value string, n int) validator.Rule {
	return validator.Rule{
		Check: func() bool { return len(value) >= n },
		Error: validator.ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters long", n)},
	}
}
