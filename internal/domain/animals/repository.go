package animals

import "context"

// ListFilter são os filtros da listagem pública.
// Status vazio significa "tudo menos adopted" (default da vitrine).
type ListFilter struct {
	Species  string
	Size     string
	Gender   string
	Age      string
	City     string // substring, case-insensitive
	State    string
	Status   string
	Featured *bool
	Search   string // nome/raça/descrição, substring
}

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Animal, int64, error)
	Update(ctx context.Context, a Animal) error
	Delete(ctx context.Context, id string) error
}
