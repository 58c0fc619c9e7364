// Package local guarda blobs no sistema de arquivos, servidos por um
// file server estático.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"abrigo-animais/internal/ports/blobstore"
)

type Store struct {
	dir     string
	baseURL string
}

// New cria o store em dir; baseURL é o prefixo público dos arquivos
// (ex.: http://localhost:8080/uploads).
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *Store) Put(_ context.Context, path string, r io.Reader, _ *blobstore.PutOptions) (blobstore.Object, error) {
	clean, err := s.safePath(path)
	if err != nil {
		return blobstore.Object{}, err
	}

	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return blobstore.Object{}, fmt.Errorf("create blob dir: %w", err)
	}

	f, err := os.Create(clean)
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(clean)
		return blobstore.Object{}, fmt.Errorf("write blob: %w", err)
	}

	return blobstore.Object{
		Path: path,
		URL:  s.baseURL + "/" + path,
	}, nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	clean, err := s.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// safePath impede que o path escape do diretório de uploads.
func (s *Store) safePath(path string) (string, error) {
	clean := filepath.Join(s.dir, filepath.FromSlash(path))
	if !strings.HasPrefix(clean, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob path: %q", path)
	}
	return clean, nil
}
