// Package memory guarda blobs em memória, para testes e modo dev sem disco.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"abrigo-animais/internal/ports/blobstore"
)

type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func New() *Store {
	return &Store{blobs: map[string][]byte{}}
}

func (s *Store) Put(_ context.Context, path string, r io.Reader, _ *blobstore.PutOptions) (blobstore.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("read blob: %w", err)
	}

	s.mu.Lock()
	s.blobs[path] = data
	s.mu.Unlock()

	return blobstore.Object{
		Path: path,
		URL:  "memory://" + path,
	}, nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.blobs, path)
	s.mu.Unlock()
	return nil
}

// Get expõe o conteúdo gravado para os testes.
func (s *Store) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[path]
	return data, ok
}

// Len conta os blobs guardados.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
