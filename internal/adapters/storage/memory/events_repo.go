package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/shelterevents"
)

type eventRepo struct {
	mu   sync.RWMutex
	byID map[string]shelterevents.Event
}

func NewEventRepo() shelterevents.Repository {
	return &eventRepo{
		byID: make(map[string]shelterevents.Event),
	}
}

func (r *eventRepo) Create(ctx context.Context, e shelterevents.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (shelterevents.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return shelterevents.Event{}, shelterevents.ErrNotFound
	}
	return e, nil
}

func (r *eventRepo) List(ctx context.Context, f shelterevents.ListFilter, page, limit int) ([]shelterevents.Event, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shelterevents.Event, 0)
	for _, e := range r.byID {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.PublicOnly && !e.Public {
			continue
		}
		if f.UpcomingAfter != nil && !e.StartsAt.After(*f.UpcomingAfter) {
			continue
		}
		out = append(out, e)
	}

	// agenda: mais próximo primeiro
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})

	total := int64(len(out))
	return paginate(out, page, limit), total, nil
}

func (r *eventRepo) Update(ctx context.Context, e shelterevents.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return shelterevents.ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return shelterevents.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
