package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fileHeader builds a real *multipart.FileHeader by round-tripping the
// payload through a multipart form, the same shape handlers receive.
func fileHeader(t *testing.T, field, filename string, payload []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

var (
	pngPayload = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	pdfPayload = []byte("%PDF-1.4\n%test\n")
)

func TestSaveAcceptsAllowedTypes(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 1<<21)

	tests := []struct {
		name    string
		payload []byte
		wantExt string
	}{
		{"png", pngPayload, ".png"},
		{"jpeg", append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 32)...), ".jpg"},
		{"pdf", pdfPayload, ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := fileHeader(t, "doc", "upload.bin", tt.payload)
			rel, err := store.Save(fh, "documents", "123_"+tt.name+"_1700000000")
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if filepath.Ext(rel) != tt.wantExt {
				t.Errorf("stored as %q, want ext %q", rel, tt.wantExt)
			}
			if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
				t.Errorf("stored file missing: %v", err)
			}
		})
	}
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	store := New(t.TempDir(), 1<<21)
	fh := fileHeader(t, "doc", "notes.txt", []byte("just text, not a document scan"))
	if _, err := store.Save(fh, "documents", "x"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("err = %v, want ErrInvalidType", err)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := New(t.TempDir(), 32) // tiny limit
	fh := fileHeader(t, "doc", "big.png", pngPayload)
	if _, err := store.Save(fh, "documents", "x"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestSaveBatchWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 1<<21)

	stored, err := store.SaveBatch("documents", []BatchItem{
		{Field: "passport", File: fileHeader(t, "passport", "a.bin", pngPayload), Base: "1_passport"},
		{Field: "photo", File: fileHeader(t, "photo", "b.bin", pdfPayload), Base: "1_photo"},
	})
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d files, want 2", len(stored))
	}
	for field, rel := range stored {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("%s missing on disk: %v", field, err)
		}
	}
}

func TestSaveBatchStoresNothingOnRejection(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 1<<21)

	// Valid files first so an eager writer would already have them on
	// disk by the time the bad one is reached.
	_, err := store.SaveBatch("documents", []BatchItem{
		{Field: "passport", File: fileHeader(t, "passport", "a.bin", pngPayload), Base: "1_passport"},
		{Field: "photo", File: fileHeader(t, "photo", "b.bin", pdfPayload), Base: "1_photo"},
		{Field: "id_card", File: fileHeader(t, "id_card", "c.txt", []byte("plain text")), Base: "1_id_card"},
	})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
	if !strings.Contains(err.Error(), "id_card") {
		t.Errorf("err %q does not name the offending field", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("rejected batch left %d entries under the store root", len(entries))
	}
}
