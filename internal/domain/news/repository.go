package news

import "context"

// ListFilter restringe a listagem de notícias.
type ListFilter struct {
	Status Status
	Tag    string
	Search string // título/conteúdo, substring
}

type Repository interface {
	Create(ctx context.Context, a Article) error
	GetByID(ctx context.Context, id string) (Article, error)
	GetBySlug(ctx context.Context, slug string) (Article, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Article, int64, error)
	Update(ctx context.Context, a Article) error
	Delete(ctx context.Context, id string) error

	// IncrementViews soma 1 ao contador de leituras.
	IncrementViews(ctx context.Context, id string) error
}
