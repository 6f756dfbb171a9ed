package catalogstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// FileStore writes <dir>/<key>.json.
type FileStore struct {
	path string
}

var _ types.CatalogStore = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, Key+".json")}, nil
}

// Path is the file the catalog lives in.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return decode(nil, false)
	}
	if err != nil {
		return nil, err
	}
	return decode(payload, true)
}

func (s *FileStore) Save(ctx context.Context, items []string) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
