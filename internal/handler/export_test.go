package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// postForm runs a handler against a form-encoded request and returns
// the recorder. Validation happens before any repository access, so the
// failure paths need no database.
func postForm(t *testing.T, h echo.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestExportRejectsMissingPakID(t *testing.T) {
	h := NewExportHandler(nil, nil, nil)

	rec := postForm(t, h.Export, url.Values{
		"pak_id":      {"   "},
		"export_type": {"manifest"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "pak_id") {
		t.Errorf("message %q does not name pak_id", msg)
	}
}

func TestExportRejectsUnknownType(t *testing.T) {
	h := NewExportHandler(nil, nil, nil)

	for _, exportType := range []string{"", "csv", "MANIFEST"} {
		rec := postForm(t, h.Export, url.Values{
			"pak_id":      {"HAJ-2026-A"},
			"export_type": {exportType},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("export_type %q: status = %d, want 400", exportType, rec.Code)
		}
		if body := decodeEnvelope(t, rec); body["success"] != false {
			t.Errorf("export_type %q: success = %v, want false", exportType, body["success"])
		}
	}
}
