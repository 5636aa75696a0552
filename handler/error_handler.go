package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mfakit/pkg/binder"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/requestid"
	"github.com/dmitrymomot/mfakit/pkg/validator"
)

// ErrorHandler writes the response for an error raised while binding,
// handling or rendering a request.
type ErrorHandler func(ctx Context, err error)

// Classifier maps a domain error to an HTTPError. It returns false for errors
// it does not recognize.
type Classifier func(err error) (HTTPError, bool)

// Classify resolves err to an HTTPError. Custom classifiers run first, then
// HTTPError values, validation errors and binder errors. Anything else is an
// internal error whose message is not exposed.
func Classify(err error, classifiers ...Classifier) HTTPError {
	for _, c := range classifiers {
		if he, ok := c(err); ok {
			return withValidationDetails(he, err)
		}
	}

	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return withValidationDetails(HTTPError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "request validation failed",
		}, err)
	}

	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrRequestTooLarge
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrFailedToParseJSON):
		return HTTPError{Status: http.StatusBadRequest, Code: "bad_request", Message: "malformed request body"}
	}
	return ErrInternal
}

func withValidationDetails(he HTTPError, err error) HTTPError {
	if he.Details != nil {
		return he
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		he.Details = ve.Fields()
	}
	return he
}

// NewErrorHandler returns an ErrorHandler that logs err and renders the
// classified HTTPError as JSON. 5xx errors are logged at error level, the
// rest at debug.
func NewErrorHandler(log *slog.Logger, classifiers ...Classifier) ErrorHandler {
	if log == nil {
		log = logger.Noop()
	}
	return func(ctx Context, err error) {
		he := Classify(err, classifiers...)
		r := ctx.Request()

		level := slog.LevelDebug
		if he.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Component("http"),
			logger.Error(err),
			slog.Int("status", he.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if rid := requestid.FromContext(r.Context()); rid != "" {
			ctx.ResponseWriter().Header().Set(requestid.Header, rid)
		}
		if renderErr := JSONError(he).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
