package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	session, err := svc.Generate(claimsFor("user-1", "session", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	pending, err := svc.Generate(claimsFor("user-1", "mfa_pending", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.GetClaims(r.Context())
		if !ok || claims.Subject != "user-1" {
			http.Error(w, "claims not found", http.StatusInternalServerError)
			return
		}
		token, ok := jwt.GetToken(r.Context())
		if !ok || token != session {
			http.Error(w, "token not found", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := jwt.Middleware(svc, "session")(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid session token", header: "Bearer " + session, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + session, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + session, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer invalid-token", wantStatus: http.StatusUnauthorized},
		{name: "wrong purpose", header: "Bearer " + pending, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestMiddlewareWithConfig(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		handler := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: svc,
			Skip:    func(r *http.Request) bool { return r.URL.Path == "/health" },
		})(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var gotErr error
		handler := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: svc,
			ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
				gotErr = err
				w.WriteHeader(http.StatusTeapot)
			},
		})(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, gotErr, jwt.ErrInvalidToken)
	})
}

func TestBearerTokenExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "no token", header: "Bearer ", wantErr: true},
		{name: "no space", header: "Bearerabc", wantErr: true},
		{name: "other scheme", header: "Token abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tt.header)

			got, err := jwt.BearerTokenExtractor(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, jwt.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
