package objstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects to a directory on disk and serves them from a
// base URL (the router mounts the directory under /static/).
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStorage) Put(ctx context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name) // never allow path traversal
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("objstore.Put: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return fmt.Errorf("objstore.Delete: malformed object url %q", url)
	}
	name := filepath.Base(url[idx+1:])
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("objstore.Delete: %w", err)
	}
	return nil
}

// Dir exposes the backing directory so the router can serve it.
func (s *LocalStorage) Dir() string {
	return s.dir
}
