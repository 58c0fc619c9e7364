package users

import "context"

// ListFilter restringe a listagem administrativa.
type ListFilter struct {
	Role   string
	Status Status
	Search string // nome/e-mail, substring
}

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]User, int64, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
}
