package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestInvoiceListRequiresNIK(t *testing.T) {
	h := NewInvoiceHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/?nik=%20", nil)
	rec := httptest.NewRecorder()
	if err := h.List(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg, _ := decodeEnvelope(t, rec)["message"].(string); !strings.Contains(msg, "nik") {
		t.Errorf("message %q does not name nik", msg)
	}
}

func TestInvoiceResolveRejectsInvalidID(t *testing.T) {
	h := NewInvoiceHandler(nil)

	for name, fn := range map[string]echo.HandlerFunc{
		"verify": h.Verify,
		"reject": h.Reject,
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("not-a-number")

			if err := fn(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
