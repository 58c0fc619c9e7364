package adoptions

import "context"

// ListFilter restringe a listagem de pedidos.
type ListFilter struct {
	Status   Status
	AnimalID string
}

type Repository interface {
	Create(ctx context.Context, a Adoption) error
	GetByID(ctx context.Context, id string) (Adoption, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Adoption, int64, error)
	Update(ctx context.Context, a Adoption) error
	Delete(ctx context.Context, id string) error

	// FindActive devolve o pedido ativo (pending ou inReview) para o par
	// (animal, e-mail), se houver.
	FindActive(ctx context.Context, animalID, adopterEmail string) (Adoption, bool, error)
}
