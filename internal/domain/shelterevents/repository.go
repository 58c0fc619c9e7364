package shelterevents

import (
	"context"
	"time"
)

// ListFilter restringe a agenda de eventos.
type ListFilter struct {
	Type   Type
	Status Status
	// PublicOnly limita à agenda pública.
	PublicOnly bool
	// UpcomingAfter, quando definido, só devolve eventos que começam depois.
	UpcomingAfter *time.Time
}

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, f ListFilter, page, limit int) ([]Event, int64, error)
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
}
