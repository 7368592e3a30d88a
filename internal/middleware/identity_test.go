package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/config"
)

func TestCurrentUserID(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		// JWT claims decode numbers as float64.
		{"jwt subject", float64(42), "42"},
		{"string id", "abc", "abc"},
		{"uint64 id", uint64(7), "7"},
		{"unset", nil, "anon"},
		{"empty string", "", "anon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c := e.NewContext(req, httptest.NewRecorder())
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			if got := currentUserID(c); got != tt.want {
				t.Errorf("currentUserID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRateKeySeparatesUsers(t *testing.T) {
	cfg := config.RateLimitConfig{KeyStrategy: "user", Prefix: "rl"}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/register", nil)

	anon := e.NewContext(req, httptest.NewRecorder())
	authed := e.NewContext(req, httptest.NewRecorder())
	authed.Set("user_id", float64(9))

	anonKey := buildRateKey(cfg, anon)
	authedKey := buildRateKey(cfg, authed)
	if anonKey == authedKey {
		t.Errorf("authenticated and anonymous requests share rate key %q", anonKey)
	}
}
