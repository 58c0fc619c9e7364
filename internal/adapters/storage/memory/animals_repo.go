package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/animals"
)

type animalRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalRepo() animals.Repository {
	return &animalRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) List(ctx context.Context, f animals.ListFilter, page, limit int) ([]animals.Animal, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if !matchAnimal(a, f) {
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

func matchAnimal(a animals.Animal, f animals.ListFilter) bool {
	// status vazio = vitrine: tudo menos adopted
	if f.Status == "" {
		if a.Status == animals.StatusAdopted {
			return false
		}
	} else if string(a.Status) != f.Status {
		return false
	}

	if f.Species != "" && a.Species != f.Species {
		return false
	}
	if f.Size != "" && a.Size != f.Size {
		return false
	}
	if f.Gender != "" && a.Gender != f.Gender {
		return false
	}
	if f.Age != "" && a.Age != f.Age {
		return false
	}
	if f.City != "" && !containsFold(a.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(a.State, f.State) {
		return false
	}
	if f.Featured != nil && a.Featured != *f.Featured {
		return false
	}
	if f.Search != "" &&
		!containsFold(a.Name, f.Search) &&
		!containsFold(a.Breed, f.Search) &&
		!containsFold(a.Description, f.Search) {
		return false
	}
	return true
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return animals.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
