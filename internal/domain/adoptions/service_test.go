package adoptions

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abrigo-animais/internal/domain/animals"
	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/platform/validation"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Adoption
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Adoption{}}
}

func (r *fakeRepo) Create(_ context.Context, a Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return Adoption{}, ErrNotFound
	}
	return a, nil
}

func (r *fakeRepo) List(_ context.Context, f ListFilter, page, limit int) ([]Adoption, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Adoption
	for _, a := range r.items {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AnimalID != "" && a.AnimalID != f.AnimalID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, a Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	r.items[a.ID] = a
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

func (r *fakeRepo) FindActive(_ context.Context, animalID, email string) (Adoption, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.AnimalID == animalID && a.AdopterEmail == email && a.Status.Active() {
			return a, true, nil
		}
	}
	return Adoption{}, false, nil
}

type fakeAnimalRepo struct {
	mu    sync.Mutex
	items map[string]animals.Animal
}

func (r *fakeAnimalRepo) Create(_ context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = a
	return nil
}

func (r *fakeAnimalRepo) GetByID(_ context.Context, id string) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *fakeAnimalRepo) List(_ context.Context, _ animals.ListFilter, _, _ int) ([]animals.Animal, int64, error) {
	return nil, 0, nil
}

func (r *fakeAnimalRepo) Update(_ context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = a
	return nil
}

func (r *fakeAnimalRepo) Delete(_ context.Context, id string) error {
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

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fixture struct {
	svc        *Service
	animalRepo *fakeAnimalRepo
	sender     *recordingSender
	mail       *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	animalRepo := &fakeAnimalRepo{items: map[string]animals.Animal{}}
	animalSvc := animals.NewService(animalRepo, nil, nil)
	sender := &recordingSender{}
	mail := notify.NewDispatcher(sender, "abrigo@example.com", nil)
	return &fixture{
		svc:        NewService(newFakeRepo(), animalSvc, mail, nil),
		animalRepo: animalRepo,
		sender:     sender,
		mail:       mail,
	}
}

func (f *fixture) seedAnimal(t *testing.T, id string, status animals.Status) {
	t.Helper()
	err := f.animalRepo.Create(context.Background(), animals.Animal{
		ID:     id,
		Name:   "Rex",
		Status: status,
	})
	require.NoError(t, err)
}

func validInput(animalID string) CreateInput {
	return CreateInput{
		AnimalID:     animalID,
		AdopterName:  "Maria Silva",
		AdopterEmail: "maria@example.com",
		AdopterPhone: "11999998888",
		Motivation:   "sempre quis dar um lar para um cachorro resgatado",
	}
}

func TestCreatePendingAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	a, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "maria@example.com", a.AdopterEmail)
	assert.NotEmpty(t, a.ID)

	// interessado + caixa do abrigo
	f.mail.Wait()
	assert.Equal(t, 2, f.sender.count())
}

func TestCreateAnimalNotAvailable(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusInProcess)

	_, err := f.svc.Create(context.Background(), validInput("a1"))
	assert.ErrorIs(t, err, ErrAnimalUnavailable)
}

func TestCreateAnimalMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), validInput("nope"))
	assert.ErrorIs(t, err, animals.ErrNotFound)
}

func TestCreateDuplicateActive(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	first, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	// mesma dupla (animal, e-mail) com pedido ativo: rejeitado
	_, err = f.svc.Create(context.Background(), validInput("a1"))
	assert.ErrorIs(t, err, ErrDuplicate)

	// e-mail com caixa diferente conta como o mesmo interessado
	in := validInput("a1")
	in.AdopterEmail = "MARIA@example.com"
	_, err = f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrDuplicate)

	// depois da rejeição o par fica livre de novo
	_, err = f.svc.UpdateStatus(context.Background(), first.ID, StatusRejected, "admin-1")
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), validInput("a1"))
	assert.NoError(t, err)
}

func TestCreateValidationCollectsAllFields(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	_, err := f.svc.Create(context.Background(), CreateInput{
		AnimalID:     "a1",
		AdopterName:  "M",
		AdopterEmail: "not-an-email",
		AdopterPhone: "123",
		Motivation:   "curto",
	})
	require.Error(t, err)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["adopterName"])
	assert.True(t, fields["adopterEmail"])
	assert.True(t, fields["adopterPhone"])
	assert.True(t, fields["motivation"])
}

func TestApproveMovesAnimalToInProcess(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	a, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	a, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusInReview, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, StatusInReview, a.Status)
	assert.Equal(t, "admin-1", a.ReviewedBy)
	require.NotNil(t, a.ReviewedAt)

	a, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusApproved, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, a.Status)

	animal, err := f.animalRepo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, animals.StatusInProcess, animal.Status)
}

func TestRejectReturnsAnimalToAvailable(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	a, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "admin-1")
	require.NoError(t, err)

	animal, err := f.animalRepo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, animals.StatusAvailable, animal.Status)
}

func TestUpdateStatusTerminalStates(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	a, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusApproved, "admin-1")
	require.NoError(t, err)

	// aprovado é terminal
	_, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "admin-1")
	assert.ErrorIs(t, err, ErrBadState)

	_, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusInReview, "admin-1")
	assert.ErrorIs(t, err, ErrBadState)
}

func TestUpdateStatusRejectsPendingTarget(t *testing.T) {
	f := newFixture(t)
	f.seedAnimal(t, "a1", animals.StatusAvailable)

	a, err := f.svc.Create(context.Background(), validInput("a1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), a.ID, StatusPending, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
