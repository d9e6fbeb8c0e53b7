// Package assets persists extracted image bytes to a servable directory.
package assets

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes extracted images under a single output directory. File names
// are unique per save, so concurrent extraction calls never collide.
type Store struct {
	dir string
}

// NewStore creates the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes image bytes as "<source>_<index>_<id>.<ext>" and returns the
// file name.
func (s *Store) Save(source string, index int, format string, data []byte) (string, error) {
	ext := strings.ToLower(format)
	if ext == "" {
		ext = "png"
	}

	name := fmt.Sprintf("%s_%d_%s.%s", source, index, shortID(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("assets: save %s: %w", name, err)
	}

	return name, nil
}

// Resolve maps a stored file name to its on-disk path. Names carrying path
// separators or traversal segments are rejected.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Clean(name) {
		return "", fmt.Errorf("assets: invalid file name %q", name)
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("assets: %s: %w", name, err)
	}

	return path, nil
}

// shortID returns six hex characters of a random UUID, enough to keep names
// unique within one upload.
func shortID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:6]
}
