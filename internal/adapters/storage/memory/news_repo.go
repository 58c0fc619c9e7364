package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/news"
)

type newsRepo struct {
	mu   sync.RWMutex
	byID map[string]news.Article
}

func NewNewsRepo() news.Repository {
	return &newsRepo{
		byID: make(map[string]news.Article),
	}
}

func (r *newsRepo) Create(ctx context.Context, a news.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("news id required")
	}
	for _, other := range r.byID {
		if other.Slug == a.Slug {
			return news.ErrSlugConflict
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *newsRepo) GetByID(ctx context.Context, id string) (news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return news.Article{}, news.ErrNotFound
	}
	return a, nil
}

func (r *newsRepo) GetBySlug(ctx context.Context, slug string) (news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Slug == slug {
			return a, nil
		}
	}
	return news.Article{}, news.ErrNotFound
}

func (r *newsRepo) List(ctx context.Context, f news.ListFilter, page, limit int) ([]news.Article, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]news.Article, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Tag != "" && !hasTag(a.Tags, f.Tag) {
			continue
		}
		if f.Search != "" && !containsFold(a.Title, f.Search) && !containsFold(a.Content, f.Search) {
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

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func (r *newsRepo) Update(ctx context.Context, a news.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return news.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *newsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return news.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// IncrementViews lê e regrava o contador, sem atomicidade entre chamadas.
func (r *newsRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return news.ErrNotFound
	}
	a.Views++
	r.byID[id] = a
	return nil
}
