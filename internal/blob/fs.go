// Package blob stores notification attachments on the filesystem or in S3.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// FS keeps blobs as files under a root directory.
type FS struct {
	root string
}

var _ contract.BlobStore = &FS{} // Compile-time check

// NewFS returns a filesystem store rooted at root, creating it if needed.
func NewFS(root string) (*FS, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FS{root: root}, nil
}

// sanitizeKey rejects empty, absolute and traversing keys.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty blob key", schema.ErrValidation)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: blob key contains '..'", schema.ErrValidation)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: absolute blob key", schema.ErrValidation)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *FS) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

// Put writes r under key. Existing blobs are never overwritten.
func (s *FS) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("blob %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(path), nil
}

// Get opens the blob at key.
func (s *FS) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", key, schema.ErrNotFound)
	}
	return f, err
}

// Delete removes the blob at key. Missing blobs are ignored.
func (s *FS) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
