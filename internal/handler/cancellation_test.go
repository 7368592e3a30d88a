package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCancellationSubmitListsMissingFields(t *testing.T) {
	h := NewCancellationHandler(nil, nil, nil)

	// No reason and no proof files.
	req := multipartRequest(t, map[string]string{"nik": "3201011211900001"}, nil)
	rec := httptest.NewRecorder()
	if err := h.Submit(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	msg, _ := body["message"].(string)
	for _, field := range []string{"reason", "proof_payment", "proof_id"} {
		if !strings.Contains(msg, field) {
			t.Errorf("message %q does not list %s", msg, field)
		}
	}
	if strings.Contains(msg, "nik") {
		t.Errorf("message %q lists nik although it was provided", msg)
	}
}

func TestCancellationRejectInvalidID(t *testing.T) {
	h := NewCancellationHandler(nil, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.Reject(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
