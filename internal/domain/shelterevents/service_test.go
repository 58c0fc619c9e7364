package shelterevents

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abrigo-animais/internal/notify"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Event
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Event{}}
}

func (r *fakeRepo) Create(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[e.ID] = e
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *fakeRepo) List(_ context.Context, f ListFilter, page, limit int) ([]Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.items {
		if f.PublicOnly && !e.Public {
			continue
		}
		if f.UpcomingAfter != nil && !e.StartsAt.After(*f.UpcomingAfter) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return ErrNotFound
	}
	r.items[e.ID] = e
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
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

func validInput() CreateInput {
	return CreateInput{
		Title:    "Feira de Adoção",
		Type:     "adoptionFair",
		StartsAt: time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC),
		Location: "Praça Central",
		Public:   true,
	}
}

func TestCreateStartsPlanned(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	e, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, StatusPlanned, e.Status)
	assert.Equal(t, "admin-1", e.CreatedBy)
	assert.Empty(t, e.Participants)
}

func TestStatusTransitions(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	e, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)

	for _, to := range []Status{StatusConfirmed, StatusInProgress, StatusCompleted} {
		e, err = svc.UpdateStatus(context.Background(), e.ID, to)
		require.NoError(t, err)
		assert.Equal(t, to, e.Status)
	}

	// completed é terminal
	_, err = svc.UpdateStatus(context.Background(), e.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrBadState)

	// planned não pula para inProgress
	other, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), other.ID, StatusInProgress)
	assert.ErrorIs(t, err, ErrBadState)
}

func TestParticipateCapacityAndDuplicates(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	max := 2
	in := validInput()
	in.MaxParticipants = &max

	e, err := svc.Create(context.Background(), "admin-1", in)
	require.NoError(t, err)

	_, err = svc.Participate(context.Background(), e.ID, "Maria", "maria@example.com")
	require.NoError(t, err)

	// mesmo e-mail não entra duas vezes
	_, err = svc.Participate(context.Background(), e.ID, "Maria de novo", "MARIA@example.com")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	e, err = svc.Participate(context.Background(), e.ID, "João", "joao@example.com")
	require.NoError(t, err)
	assert.True(t, e.Full())

	_, err = svc.Participate(context.Background(), e.ID, "Ana", "ana@example.com")
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestParticipateCancelledEvent(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	e, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), e.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Participate(context.Background(), e.ID, "Maria", "maria@example.com")
	assert.ErrorIs(t, err, ErrBadState)
}

func TestSendReminderReachesAllParticipants(t *testing.T) {
	sender := &recordingSender{}
	mail := notify.NewDispatcher(sender, "abrigo@example.com", nil)
	svc := NewService(newFakeRepo(), mail, nil)

	e, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)

	_, err = svc.Participate(context.Background(), e.ID, "Maria", "maria@example.com")
	require.NoError(t, err)
	_, err = svc.Participate(context.Background(), e.ID, "João", "joao@example.com")
	require.NoError(t, err)

	n, err := svc.SendReminder(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mail.Wait()
	assert.Len(t, sender.sent, 2)
}

func TestUpdateCannotShrinkBelowRegistered(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	e, err := svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)

	_, err = svc.Participate(context.Background(), e.ID, "Maria", "maria@example.com")
	require.NoError(t, err)
	_, err = svc.Participate(context.Background(), e.ID, "João", "joao@example.com")
	require.NoError(t, err)

	one := 1
	_, err = svc.Update(context.Background(), e.ID, UpdateInput{MaxParticipants: &one})
	require.Error(t, err)
}

func TestListPublicUpcoming(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }

	past := validInput()
	past.StartsAt = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), "admin-1", past)
	require.NoError(t, err)

	private := validInput()
	private.Public = false
	_, err = svc.Create(context.Background(), "admin-1", private)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "admin-1", validInput())
	require.NoError(t, err)

	items, total, err := svc.ListPublic(context.Background(), "", true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.True(t, items[0].Public)
}
