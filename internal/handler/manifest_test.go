package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestUpdateRoomReportsAllMissingFieldsAtOnce(t *testing.T) {
	h := NewManifestHandler(nil, nil, nil)

	// Whitespace-only values count as missing after trimming.
	rec := postForm(t, h.UpdateRoom, url.Values{
		"nik":            {""},
		"pak_id":         {"  "},
		"room_prefix":    {""},
		"medinah_number": {""},
		"mekkah_number":  {""},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	msg, _ := body["message"].(string)
	for _, field := range []string{"nik", "pak_id", "room_prefix", "medinah_number", "mekkah_number"} {
		if !strings.Contains(msg, field) {
			t.Errorf("message %q does not list %s", msg, field)
		}
	}
	fields, _ := body["fields"].([]any)
	if len(fields) != 5 {
		t.Errorf("fields has %d entries, want 5", len(fields))
	}
}

func TestUpdateRoomMissingSubset(t *testing.T) {
	h := NewManifestHandler(nil, nil, nil)

	rec := postForm(t, h.UpdateRoom, url.Values{
		"nik":            {"3201011211900001"},
		"pak_id":         {"HAJ-2026-A"},
		"room_prefix":    {"Q1"},
		"medinah_number": {""},
		"mekkah_number":  {""},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	msg, _ := body["message"].(string)
	if strings.Contains(msg, "nik") || strings.Contains(msg, "room_prefix") {
		t.Errorf("message %q lists fields that were provided", msg)
	}
	if !strings.Contains(msg, "medinah_number") || !strings.Contains(msg, "mekkah_number") {
		t.Errorf("message %q does not list both missing numbers", msg)
	}
}
