package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a stable machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string][]string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NewHTTPError builds an HTTPError whose message defaults to the status text.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest           = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized         = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrNotFound             = NewHTTPError(http.StatusNotFound, "not_found")
	ErrConflict             = NewHTTPError(http.StatusConflict, "conflict")
	ErrRequestTooLarge      = NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large")
	ErrUnsupportedMediaType = NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrInternal             = NewHTTPError(http.StatusInternalServerError, "internal_error")
	ErrServiceUnavailable   = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)
