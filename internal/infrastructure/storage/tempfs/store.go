// Package tempfs stages downloaded documents on local disk for the
// lifetime of one processing job.
package tempfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = filepath.Join(os.TempDir(), "mediscan")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) Save(_ context.Context, key string, data []byte) (string, error) {
	path := s.pathFor(key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}
	return data, nil
}

// Remove is idempotent; a second removal of the same key is not an
// error.
func (s *Store) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	return nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key))
}

// sanitizeKey reduces a caller-supplied key to one safe path element.
func sanitizeKey(key string) string {
	base := filepath.Base(key)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
