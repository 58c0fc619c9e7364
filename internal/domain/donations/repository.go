package donations

import "context"

// ListFilter restringe a listagem de doações.
type ListFilter struct {
	Type   Type
	Status Status
}

type Repository interface {
	Create(ctx context.Context, d Donation) error
	GetByID(ctx context.Context, id string) (Donation, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Donation, int64, error)
	Update(ctx context.Context, d Donation) error
	Delete(ctx context.Context, id string) error

	// Stats agrega contagens por tipo/status e o total em dinheiro
	// confirmado + recebido.
	Stats(ctx context.Context) (Stats, error)
}
