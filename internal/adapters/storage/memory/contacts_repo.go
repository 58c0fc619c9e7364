package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/contacts"
)

type contactRepo struct {
	mu   sync.RWMutex
	byID map[string]contacts.Contact
}

func NewContactRepo() contacts.Repository {
	return &contactRepo{
		byID: make(map[string]contacts.Contact),
	}
}

func (r *contactRepo) Create(ctx context.Context, c contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("contact id required")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return contacts.Contact{}, contacts.ErrNotFound
	}
	return c, nil
}

func (r *contactRepo) List(ctx context.Context, f contacts.ListFilter, page, limit int) ([]contacts.Contact, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contacts.Contact, 0)
	for _, c := range r.byID {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	return paginate(out, page, limit), total, nil
}

func (r *contactRepo) Update(ctx context.Context, c contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return contacts.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return contacts.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
