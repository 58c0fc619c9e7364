package contacts

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
	items map[string]Contact
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Contact{}}
}

func (r *fakeRepo) Create(_ context.Context, c Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) List(_ context.Context, f ListFilter, page, limit int) ([]Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Contact
	for _, c := range r.items {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, c Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return ErrNotFound
	}
	r.items[c.ID] = c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
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
		Name:    "João Pereira",
		Email:   "joao@example.com",
		Subject: "Horário de visitas",
		Message: "Gostaria de saber o horário de visitas ao abrigo.",
	}
}

func TestCreateDefaults(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	c, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, StatusNew, c.Status)
	assert.Equal(t, PriorityNormal, c.Priority)
	assert.Equal(t, "geral", c.Category)
	assert.Equal(t, "joao@example.com", c.Email)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "J",
		Email:    "bogus",
		Message:  "curta",
		Priority: "urgentíssima",
	})
	require.Error(t, err)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["subject"])
	assert.True(t, fields["message"])
	assert.True(t, fields["priority"])
}

func TestGetMarksAsRead(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	c, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, c.Status)

	// segunda leitura não muda mais nada
	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, stored.Status)
}

func TestRespondRecordsAndNotifies(t *testing.T) {
	sender := &recordingSender{}
	mail := notify.NewDispatcher(sender, "abrigo@example.com", nil)
	svc := NewService(newFakeRepo(), mail, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	c, err := svc.Respond(context.Background(), created.ID, "admin-1", "Visitas de terça a domingo, das 9h às 17h.")
	require.NoError(t, err)

	assert.Equal(t, StatusResponded, c.Status)
	assert.Equal(t, "admin-1", c.ResponderID)
	require.NotNil(t, c.RespondedAt)

	mail.Wait()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "joao@example.com", sender.sent[0].To)
}

func TestRespondEmptyResponse(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), created.ID, "admin-1", "   ")
	var errs validation.FieldErrors
	assert.ErrorAs(t, err, &errs)
}

func TestUpdateStatus(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	c, err := svc.UpdateStatus(context.Background(), created.ID, StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, c.Status)

	_, err = svc.UpdateStatus(context.Background(), created.ID, Status("bogus"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
