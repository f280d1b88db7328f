package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// FileStore guarda cada clave como <root>/<key>.json con sangría de 2 espacios
type FileStore struct {
	root string
}

// NewFileStore crea el directorio raíz y el de carritos si no existen
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(root, cartsPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("store/file: mkdir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Path devuelve la ruta del fichero de una clave
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key)+".json")
}

func (s *FileStore) Load(ctx context.Context, key string, dst any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	path := s.Path(key)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotExist
	}
	if err != nil {
		return fmt.Errorf("store/file: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("store/file: decode %s: %w", path, err)
	}
	return nil
}

// Save escribe en un fichero temporal y lo renombra, así un fallo a mitad de
// escritura no deja el documento truncado.
func (s *FileStore) Save(ctx context.Context, key string, v any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	path := s.Path(key)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store/file: encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store/file: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store/file: create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store/file: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store/file: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store/file: rename %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store/file: stat %s: %w", s.Path(key), err)
	}
	return true, nil
}

func (s *FileStore) Close() error { return nil }
