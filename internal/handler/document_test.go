package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// multipartRequest builds a multipart body with the given form values
// and one small file per named field.
func multipartRequest(t *testing.T, values map[string]string, fileFields []string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, field := range fileFields {
		fw, err := w.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatalf("create file %s: %v", field, err)
		}
		if _, err := fw.Write([]byte("\x89PNG\r\n\x1a\n")); err != nil {
			t.Fatalf("write file %s: %v", field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestDocumentUploadRejectsPartialBatch(t *testing.T) {
	h := NewDocumentHandler(nil, nil, nil)

	// Five of the seven required slots: nothing may be stored.
	req := multipartRequest(t, map[string]string{"nik": "3201011211900001"},
		[]string{"passport", "photo", "id_card", "family_card", "vaccine"})
	rec := httptest.NewRecorder()
	if err := h.Upload(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "All documents must be uploaded") {
		t.Errorf("message %q missing batch requirement text", msg)
	}
	missing, _ := body["missing"].([]any)
	if len(missing) != 2 {
		t.Fatalf("missing has %d entries, want 2", len(missing))
	}
	got := map[string]bool{}
	for _, m := range missing {
		got[m.(string)] = true
	}
	if !got["marriage_cert"] || !got["birth_cert"] {
		t.Errorf("missing = %v, want marriage_cert and birth_cert", missing)
	}
}

func TestDocumentUploadRequiresNIK(t *testing.T) {
	h := NewDocumentHandler(nil, nil, nil)

	req := multipartRequest(t, nil, []string{"passport"})
	rec := httptest.NewRecorder()
	if err := h.Upload(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg, _ := decodeEnvelope(t, rec)["message"].(string); !strings.Contains(msg, "nik") {
		t.Errorf("message %q does not name nik", msg)
	}
}
