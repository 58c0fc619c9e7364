package contacts

import "context"

// ListFilter restringe a fila de atendimento.
type ListFilter struct {
	Status   Status
	Category string
	Priority Priority
}

type Repository interface {
	Create(ctx context.Context, c Contact) error
	GetByID(ctx context.Context, id string) (Contact, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Contact, int64, error)
	Update(ctx context.Context, c Contact) error
	Delete(ctx context.Context, id string) error
}
