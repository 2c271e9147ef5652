// Package storage persists uploaded files on local disk and hands back the
// URL they are served under. Saving a file and committing its database row
// are not atomic; orphans from a failure between the two are logged by the
// caller and left behind.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrExtensionNotAllowed is returned when the uploaded file's extension is
// not on the allow-list.
var ErrExtensionNotAllowed = errors.New("file type not allowed")

// URLPrefix is the route prefix uploaded files are served under.
const URLPrefix = "/uploads"

var allowedExtensions = map[string]struct{}{
	".txt": {}, ".pdf": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".zip": {},
}

// LocalStore writes files under a root directory on local disk.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Allowed reports whether the filename's extension is on the allow-list.
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// Save persists the stream under scope (a relative directory such as
// "projects/3") with a sanitized, timestamp-prefixed name and returns the
// serving URL.
func (s *LocalStore) Save(scope, filename string, src io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", ErrExtensionNotAllowed
	}

	stored := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102150405"), sanitize(filename))

	dir := filepath.Join(s.root, filepath.FromSlash(scope))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(URLPrefix, scope, stored), nil
}

// Delete removes the file behind a URL previously returned by Save.
func (s *LocalStore) Delete(fileURL string) error {
	rel := strings.TrimPrefix(fileURL, URLPrefix+"/")
	if rel == fileURL || strings.Contains(rel, "..") {
		return fmt.Errorf("not a managed file URL: %s", fileURL)
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

// sanitize strips any path components and replaces unsafe runes so the name
// is safe to place on disk.
func sanitize(filename string) string {
	base := filepath.Base(filepath.FromSlash(filename))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
