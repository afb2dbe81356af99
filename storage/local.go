package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore Disk-backed blob store. Files land under Dir and are served by
// the HTTP layer under the /uploads prefix.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{Dir: dir}, nil
}

func (s *LocalStore) Save(name string, r io.Reader, size int64, contentType string) (string, error) {
	dest := filepath.Join(s.Dir, filepath.Base(name))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	return "/uploads/" + filepath.Base(name), nil
}

func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, filepath.Base(name)))
}
