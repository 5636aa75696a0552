package mfa

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mfakit/handler"
	"github.com/dmitrymomot/mfakit/pkg/binder"
	"github.com/dmitrymomot/mfakit/pkg/httpserver"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

// RouterOptions configures Router.
type RouterOptions struct {
	Logger         *slog.Logger
	HealthChecks   map[string]httpserver.CheckFunc // run by /health/ready
	HealthTimeout  time.Duration
	MaxRequestSize int64 // JSON body limit in bytes; binder.DefaultMaxJSONSize when zero
}

// Handlers binds an AuthService to HTTP.
type Handlers struct {
	svc          AuthService
	log          *slog.Logger
	errorHandler handler.ErrorHandler
	bind         handler.Bind
}

// NewHandlers builds the HTTP handlers for svc.
func NewHandlers(svc AuthService, opts RouterOptions) *Handlers {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	limit := opts.MaxRequestSize
	if limit <= 0 {
		limit = binder.DefaultMaxJSONSize
	}
	return &Handlers{
		svc:          svc,
		log:          log,
		errorHandler: handler.NewErrorHandler(log, classify),
		bind:         binder.JSONWithLimit(limit),
	}
}

// Router returns the full API: auth routes plus health endpoints.
func Router(svc AuthService, opts RouterOptions) chi.Router {
	h := NewHandlers(svc, opts)

	timeout := opts.HealthTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	r := chi.NewRouter()
	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(h.log, timeout, opts.HealthChecks))
	r.Mount("/", h.Handle())
	return r
}

// Handle returns the auth routes without health endpoints.
func (h *Handlers) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", route(h, h.register))
	r.Post("/login", route(h, h.login))
	r.Post("/mfa/totp/verify", route(h, h.verifyTOTP))
	r.Post("/mfa/email/send", route(h, h.sendEmailOTP))
	r.Post("/mfa/email/verify", route(h, h.verifyEmailOTP))
	r.Post("/mfa/verify", route(h, h.verifySecondFactor))

	r.Group(func(r chi.Router) {
		r.Use(h.svc.Tokens().Middleware(mfa.PurposeSession, h.rejectToken))
		r.Post("/mfa/enable", route(h, h.enableMFA, withoutBody()))
		r.Post("/mfa/confirm", route(h, h.confirmMFA))
		r.Get("/profile", route(h, h.profile, withoutBody()))
	})

	return r
}

func (h *Handlers) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler(handler.NewContext(w, r), handler.ErrUnauthorized)
	h.log.DebugContext(r.Context(), "bearer token rejected", logger.Error(err))
}

type validatable interface {
	Validate() error
}

type routeConfig struct {
	noBody bool
}

type routeOption func(*routeConfig)

// withoutBody skips JSON binding for routes that take no request body.
func withoutBody() routeOption {
	return func(c *routeConfig) { c.noBody = true }
}

// route wraps fn with JSON binding, validation and the module's error handler.
func route[R any](h *Handlers, fn handler.HandlerFunc[R], opts ...routeOption) http.HandlerFunc {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	wrapOpts := []handler.WrapOption[R]{
		handler.WithErrorHandler[R](h.errorHandler),
		handler.WithDecorators(validated[R]()),
	}
	if !cfg.noBody {
		wrapOpts = append(wrapOpts, handler.WithBinders[R](h.bind))
	}
	return handler.Wrap(fn, wrapOpts...)
}

// validated rejects requests whose Validate method fails before they reach
// the service.
func validated[R any]() handler.Decorator[R] {
	return func(next handler.HandlerFunc[R]) handler.HandlerFunc[R] {
		return func(ctx handler.Context, req R) handler.Response {
			if v, ok := any(req).(validatable); ok {
				if err := v.Validate(); err != nil {
					return handler.Error(errors.Join(mfa.ErrValidationFailed, err))
				}
			}
			return next(ctx, req)
		}
	}
}
