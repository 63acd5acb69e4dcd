package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// LocalStorage guarda los adjuntos en un sistema de archivos (disco en
// producción, memoria en tests). Las URLs apuntan a la ruta estática que sirve
// la API bajo publicPrefix.
type LocalStorage struct {
	fs           afero.Fs
	publicPrefix string
}

// NewLocalStorage adjuntos en disco bajo dir, servidos en publicPrefix (p. ej. "/files").
func NewLocalStorage(dir, publicPrefix string) *LocalStorage {
	return NewLocalStorageFs(afero.NewBasePathFs(afero.NewOsFs(), dir), publicPrefix)
}

// NewLocalStorageFs permite inyectar el sistema de archivos.
func NewLocalStorageFs(fsys afero.Fs, publicPrefix string) *LocalStorage {
	return &LocalStorage{fs: fsys, publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + key)
	if k == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: clave inválida %q", key)
	}
	return k, nil
}

// Put escribe el archivo creando los directorios intermedios.
func (s *LocalStorage) Put(_ context.Context, key string, file *schema.FileValue) (string, error) {
	if file == nil {
		return "", errors.New("storage: archivo requerido")
	}
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(path.Dir(k), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := afero.WriteFile(s.fs, k, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", key, err)
	}
	return strings.TrimPrefix(k, "/"), nil
}

// URL ruta pública del archivo.
func (s *LocalStorage) URL(_ context.Context, key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return s.publicPrefix + k, nil
}

// Delete elimina el archivo; si no existe no hace nada.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(k); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: eliminar %s: %w", key, err)
	}
	return nil
}
