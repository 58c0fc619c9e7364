package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/adoptions"
)

type adoptionRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Adoption
}

func NewAdoptionRepo() adoptions.Repository {
	return &adoptionRepo{
		byID: make(map[string]adoptions.Adoption),
	}
}

func (r *adoptionRepo) Create(ctx context.Context, a adoptions.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("adoption id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("adoption already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *adoptionRepo) GetByID(ctx context.Context, id string) (adoptions.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.Adoption{}, adoptions.ErrNotFound
	}
	return a, nil
}

func (r *adoptionRepo) List(ctx context.Context, f adoptions.ListFilter, page, limit int) ([]adoptions.Adoption, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Adoption, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AnimalID != "" && a.AnimalID != f.AnimalID {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	return paginate(out, page, limit), total, nil
}

func (r *adoptionRepo) Update(ctx context.Context, a adoptions.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return adoptions.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *adoptionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return adoptions.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *adoptionRepo) FindActive(ctx context.Context, animalID, adopterEmail string) (adoptions.Adoption, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.AnimalID == animalID && strings.EqualFold(a.AdopterEmail, adopterEmail) && a.Status.Active() {
			return a, true, nil
		}
	}
	return adoptions.Adoption{}, false, nil
}
