package donations

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/platform/validation"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Donation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Donation{}}
}

func (r *fakeRepo) Create(_ context.Context, d Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return Donation{}, ErrNotFound
	}
	return d, nil
}

func (r *fakeRepo) List(_ context.Context, f ListFilter, page, limit int) ([]Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Donation
	for _, d := range r.items {
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, d Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return ErrNotFound
	}
	r.items[d.ID] = d
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) Stats(_ context.Context) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := Stats{
		ByType:   map[string]int64{},
		ByStatus: map[string]int64{},
	}
	for _, d := range r.items {
		stats.Total++
		stats.ByType[string(d.Type)]++
		stats.ByStatus[string(d.Status)]++
		if d.Type == TypeMoney && d.Amount != nil &&
			(d.Status == StatusConfirmed || d.Status == StatusReceived) {
			stats.TotalAmount += *d.Amount
		}
	}
	return stats, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Email
}

func (s *recordingSender) Send(_ context.Context, msg notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func moneyInput(amount float64) CreateInput {
	return CreateInput{
		DonorName:  "Ana Costa",
		DonorEmail: "ana@example.com",
		Type:       "money",
		Amount:     &amount,
	}
}

func TestCreatePendingAndThanksDonor(t *testing.T) {
	sender := &recordingSender{}
	mail := notify.NewDispatcher(sender, "abrigo@example.com", nil)
	svc := NewService(newFakeRepo(), mail, nil)

	d, err := svc.Create(context.Background(), "", moneyInput(150))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, d.Status)
	assert.Empty(t, d.RegistrarID)

	mail.Wait()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].To)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	negative := -10.0
	_, err := svc.Create(context.Background(), "", CreateInput{
		DonorName:  "A",
		DonorEmail: "bogus",
		Type:       "gold",
		Amount:     &negative,
	})
	require.Error(t, err)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["donorName"])
	assert.True(t, fields["donorEmail"])
	assert.True(t, fields["type"])
	assert.True(t, fields["amount"])
}

func TestCreateMoneyRequiresAmount(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	in := moneyInput(0)
	in.Amount = nil
	_, err := svc.Create(context.Background(), "", in)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "amount", errs[0].Field)
}

func TestStatusTransitions(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	d, err := svc.Create(context.Background(), "admin-1", moneyInput(50))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", d.RegistrarID)

	d, err = svc.UpdateStatus(context.Background(), d.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, d.Status)

	d, err = svc.UpdateStatus(context.Background(), d.ID, StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, d.Status)

	// recebida é terminal
	_, err = svc.UpdateStatus(context.Background(), d.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrBadState)

	// pending não vai direto para received
	other, err := svc.Create(context.Background(), "", moneyInput(25))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), other.ID, StatusReceived)
	assert.ErrorIs(t, err, ErrBadState)
}

func TestStatsSumsConfirmedAndReceivedMoney(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	a, err := svc.Create(context.Background(), "", moneyInput(100))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), "", moneyInput(40))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "", CreateInput{
		DonorName:  "Carlos Lima",
		DonorEmail: "carlos@example.com",
		Type:       "food",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), a.ID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, StatusReceived)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByType["money"])
	assert.Equal(t, int64(1), stats.ByType["food"])
	assert.InDelta(t, 140.0, stats.TotalAmount, 0.001)
}
