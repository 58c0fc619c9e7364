package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"abrigo-animais/internal/domain/donations"
)

type donationRepo struct {
	mu   sync.RWMutex
	byID map[string]donations.Donation
}

func NewDonationRepo() donations.Repository {
	return &donationRepo{
		byID: make(map[string]donations.Donation),
	}
}

func (r *donationRepo) Create(ctx context.Context, d donations.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("donation id required")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *donationRepo) GetByID(ctx context.Context, id string) (donations.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return donations.Donation{}, donations.ErrNotFound
	}
	return d, nil
}

func (r *donationRepo) List(ctx context.Context, f donations.ListFilter, page, limit int) ([]donations.Donation, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]donations.Donation, 0)
	for _, d := range r.byID {
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	return paginate(out, page, limit), total, nil
}

func (r *donationRepo) Update(ctx context.Context, d donations.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; !exists {
		return donations.ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *donationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return donations.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *donationRepo) Stats(ctx context.Context) (donations.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := donations.Stats{
		ByType:   map[string]int64{},
		ByStatus: map[string]int64{},
	}
	for _, d := range r.byID {
		stats.Total++
		stats.ByType[string(d.Type)]++
		stats.ByStatus[string(d.Status)]++
		if d.Type == donations.TypeMoney && d.Amount != nil &&
			(d.Status == donations.StatusConfirmed || d.Status == donations.StatusReceived) {
			stats.TotalAmount += *d.Amount
		}
	}
	return stats, nil
}
