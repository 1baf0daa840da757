package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func metricsStub() (http.Handler, *bool) {
	reached := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}), &reached
}

func TestBasicAuthMiddleware(t *testing.T) {
	t.Setenv("METRICS_USER", "ops")
	t.Setenv("METRICS_PASS", "secret")

	tests := []struct {
		name     string
		user     string
		pass     string
		withAuth bool
		want     int
	}{
		{"valid credentials", "ops", "secret", true, http.StatusOK},
		{"wrong password", "ops", "nope", true, http.StatusUnauthorized},
		{"wrong user", "intruder", "secret", true, http.StatusUnauthorized},
		{"missing header", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, reached := metricsStub()
			r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.withAuth {
				r.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()

			BasicAuthMiddleware(next).ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, *reached)
		})
	}
}

func TestBasicAuthMiddleware_UnsetUserAlwaysRejects(t *testing.T) {
	t.Setenv("METRICS_USER", "")
	t.Setenv("METRICS_PASS", "")

	next, reached := metricsStub()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.SetBasicAuth("", "")
	w := httptest.NewRecorder()

	BasicAuthMiddleware(next).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached)
}

func TestClientIP_DirectConnection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:54321"
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

// Only the last X-Forwarded-For entry comes from our own proxy; everything
// before it is client-supplied, so spoofed prefixes must not change the key.
func TestClientIP_UsesLastForwardedHop(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:443"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8, 198.51.100.9")
	assert.Equal(t, "198.51.100.9", clientIP(r))

	spoofed := httptest.NewRequest(http.MethodGet, "/", nil)
	spoofed.RemoteAddr = "10.0.0.1:443"
	spoofed.Header.Set("X-Forwarded-For", "6.6.6.6, 198.51.100.9")
	assert.Equal(t, clientIP(r), clientIP(spoofed))
}

func TestClientIP_SingleForwardedEntry(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", clientIP(r))
}
