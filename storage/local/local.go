// Package local persists result images onto the local filesystem. It is the
// default download target for single-machine deployments.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teklini/nanogen"
)

// Store writes files under a base directory.
type Store struct {
	basePath string
}

var _ nanogen.Storage = (*Store)(nil)

// New initializes a Store rooted at basePath, creating it if needed.
func New(basePath string) (*Store, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("local storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: ensure base path: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// SaveFile writes data under the given relative path and returns the
// absolute filesystem path. Paths are cleaned to prevent escaping the base
// directory.
func (s *Store) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned, err := sanitizePath(path)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("local storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("local storage: write file: %w", err)
	}
	return fullPath, nil
}

// sanitizePath normalizes a path and prevents directory traversal.
func sanitizePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("local storage: path is required")
	}
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimLeft(path, "/")
	cleaned := filepath.Clean(path)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("local storage: invalid path %q", path)
	}
	return cleaned, nil
}
