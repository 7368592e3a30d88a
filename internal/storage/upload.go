// Package storage implements the upload store: it accepts raw
// multipart files, a target category and desired base names, and
// returns stored relative paths or a typed failure. Callers build base
// names that embed identifiers and timestamps, so stored names are
// unique per call and no locking is needed.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidType is returned when the sniffed content type is not on
// the allow-list (JPEG, PNG, PDF).
var ErrInvalidType = errors.New("file type not allowed")

// ErrTooLarge is returned when the file exceeds the configured size
// limit.
var ErrTooLarge = errors.New("file too large")

// allowedTypes maps accepted MIME types to the extension stored files
// get. Detection is by content sniffing, never by the client-supplied
// filename or Content-Type header.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Store writes uploads beneath a root directory, one subdirectory per
// category.
type Store struct {
	root     string
	maxBytes int64
}

// New returns a Store rooted at dir with the given per-file size limit.
func New(dir string, maxBytes int64) *Store {
	return &Store{root: dir, maxBytes: maxBytes}
}

// BatchItem is one file of a multi-file upload: the form field it came
// from and the base name it will be stored under.
type BatchItem struct {
	Field string
	File  *multipart.FileHeader
	Base  string
}

// prepared holds a fully validated payload that has not been written
// yet, so batch saves can reject everything before touching disk.
type prepared struct {
	data []byte
	ext  string
}

// prepare reads the upload into memory, enforces the size limit and
// sniffs the content type. No file is created.
func (s *Store) prepare(fh *multipart.FileHeader) (*prepared, error) {
	if fh.Size > s.maxBytes {
		return nil, ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Read at most one byte over the limit so oversized streams with a
	// lying Content-Length are still rejected.
	data, err := io.ReadAll(io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	ext, ok := allowedTypes[mimetype.Detect(data).String()]
	if !ok {
		return nil, ErrInvalidType
	}
	return &prepared{data: data, ext: ext}, nil
}

// write puts a prepared payload at <root>/<category>/<base><ext> and
// returns the path relative to the root.
func (s *Store) write(category, base string, p *prepared) (string, error) {
	rel := filepath.Join(category, base+p.ext)
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(abs, p.data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Save stores one uploaded file under <root>/<category>/<baseName><ext>
// and returns the path relative to the root. The extension is derived
// from the sniffed MIME type.
func (s *Store) Save(fh *multipart.FileHeader, category, baseName string) (string, error) {
	p, err := s.prepare(fh)
	if err != nil {
		return "", err
	}
	return s.write(category, baseName, p)
}

// SaveBatch stores a set of files all-or-nothing: every item is read,
// size-checked and type-sniffed before the first write, and if a write
// still fails midway the files written so far are removed. Errors name
// the offending field and unwrap to ErrInvalidType/ErrTooLarge. The
// returned map is keyed by field.
func (s *Store) SaveBatch(category string, items []BatchItem) (map[string]string, error) {
	ready := make([]*prepared, len(items))
	for i, item := range items {
		p, err := s.prepare(item.File)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.Field, err)
		}
		ready[i] = p
	}

	out := make(map[string]string, len(items))
	written := make([]string, 0, len(items))
	for i, item := range items {
		rel, err := s.write(category, item.Base, ready[i])
		if err != nil {
			for _, prev := range written {
				_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(prev)))
			}
			return nil, fmt.Errorf("%s: %w", item.Field, err)
		}
		out[item.Field] = rel
		written = append(written, rel)
	}
	return out, nil
}
