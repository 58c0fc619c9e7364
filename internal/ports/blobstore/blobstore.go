package blobstore

import (
	"context"
	"io"
)

// PutOptions acompanha o upload de um objeto.
type PutOptions struct {
	ContentType string
}

// Object descreve um blob armazenado.
type Object struct {
	Path string // handle interno, usado para Delete
	URL  string // URL pública servida ao cliente
}

// Store abstrai o bucket de arquivos (fotos de animais, imagens de notícias).
// A implementação local serve para dev; nada na aplicação depende do backend.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, opts *PutOptions) (Object, error)
	Delete(ctx context.Context, path string) error
}
