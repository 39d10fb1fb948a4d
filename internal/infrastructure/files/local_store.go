// Package files implementa el blob store de planillas y remitos: guardar
// bytes y devolver una ruta relativa. El contenido no se interpreta acá;
// las planillas llegan al motor ya parseadas y diffeadas aguas arriba.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore guarda archivos en disco bajo un directorio base.
type LocalStore struct {
	baseDir string
}

// NewLocalStore crea el store y asegura el directorio base.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save persiste los bytes de r bajo un nombre único que conserva la
// extensión original y devuelve la ruta relativa al directorio base.
func (s *LocalStore) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	fullPath := filepath.Join(s.baseDir, name)
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	return name, nil
}

// Open abre un archivo previamente guardado por su ruta relativa.
func (s *LocalStore) Open(relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, filepath.Clean(relPath)))
	if err != nil {
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	return f, nil
}
