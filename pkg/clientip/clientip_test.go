package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mfakit/pkg/clientip"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "203.0.113.7:5123", want: "203.0.113.7"},
		{name: "remote addr without port", remote: "203.0.113.7", want: "203.0.113.7"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "mapped ipv4", remote: "[::ffff:198.51.100.4]:80", want: "198.51.100.4"},
		{name: "headers ignored by default", remote: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "198.51.100.9"}, want: "10.0.0.1"},
		{name: "forwarded first hop", remote: "10.0.0.1:80", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.2"}, want: "198.51.100.9"},
		{name: "cloudflare wins", remote: "10.0.0.1:80", trustProxy: true, headers: map[string]string{"CF-Connecting-IP": "192.0.2.44", "X-Real-IP": "192.0.2.55"}, want: "192.0.2.44"},
		{name: "invalid header falls through", remote: "10.0.0.1:80", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "not-an-ip", "X-Real-IP": "192.0.2.55"}, want: "192.0.2.55"},
		{name: "garbage remote", remote: "nonsense", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r, tt.trustProxy))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware(false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "192.0.2.1", got)
}
