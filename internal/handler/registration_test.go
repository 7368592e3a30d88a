package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegisterCollectsAllValidationErrors(t *testing.T) {
	h := NewRegistrationHandler(nil, nil, nil, nil)

	// nik too short, sex out of range, room category unknown; name and
	// address absent entirely.
	req := multipartRequest(t, map[string]string{
		"nik":           "12345",
		"pak_id":        "HAJ-2026-A",
		"sex":           "X",
		"birth_place":   "Bandung",
		"room_category": "Suite",
	}, nil)
	rec := httptest.NewRecorder()
	if err := h.Register(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	errs, _ := body["errors"].([]any)
	joined := make([]string, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, e.(string))
	}
	all := strings.Join(joined, "; ")
	for _, field := range []string{"nik", "sex", "name", "address", "room_category"} {
		if !strings.Contains(all, field) {
			t.Errorf("errors %q do not mention %s", all, field)
		}
	}
}

func TestRegisterRequiresPaymentProof(t *testing.T) {
	h := NewRegistrationHandler(nil, nil, nil, nil)

	req := multipartRequest(t, map[string]string{
		"nik":           "3201011211900001",
		"pak_id":        "HAJ-2026-A",
		"name":          "Budi Santoso",
		"sex":           "M",
		"birth_place":   "Bandung",
		"address":       "Jl. Merdeka 1",
		"room_category": "Quad",
	}, nil)
	rec := httptest.NewRecorder()
	if err := h.Register(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg, _ := decodeEnvelope(t, rec)["message"].(string); !strings.Contains(msg, "payment_proof") {
		t.Errorf("message %q does not name payment_proof", msg)
	}
}
