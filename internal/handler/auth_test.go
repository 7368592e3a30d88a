package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/config"
)

func TestLogoutWithoutTokenOrBodyIsUnauthorized(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)

	// Neither a JWT in the context nor a refresh_token in the body:
	// there is no session to revoke.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Logout(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateUserRequiresCredentials(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)

	// Missing credentials are rejected before any role handling or
	// repository access.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"role":"SUPERUSER"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateUser(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg, _ := decodeEnvelope(t, rec)["error"].(string); !strings.Contains(msg, "email/password") {
		t.Errorf("error %q does not name email/password", msg)
	}
}
