package animals

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abrigo-animais/internal/platform/validation"
)

type fakeRepo struct {
	byID map[string]Animal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Animal)}
}

func (r *fakeRepo) Create(_ context.Context, a Animal) error {
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter, _, _ int) ([]Animal, int64, error) {
	out := make([]Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:        "Rex",
		Species:     "cachorro",
		Breed:       "vira-lata",
		Age:         "filhote",
		Size:        "médio",
		Gender:      "macho",
		Description: "Muito brincalhão e carinhoso",
		City:        "Curitiba",
		State:       "PR",
		Vaccinated:  "sim",
		Friendly:    true,
	}
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, nil, nil), repo
}

func TestCreateNormalizesAndDefaultsStatus(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Create(context.Background(), "user-1", validCreateInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Dog", a.Species)
	assert.Equal(t, "Puppy", a.Age)
	assert.Equal(t, "Medium", a.Size)
	assert.Equal(t, "Male", a.Gender)
	assert.Equal(t, StatusAvailable, a.Status)
	assert.True(t, a.Vaccinated)
	assert.True(t, a.Friendly)
	assert.False(t, a.Neutered)
	assert.Equal(t, "user-1", a.CreatedBy)
}

func TestCreateCollectsAllFieldErrors(t *testing.T) {
	svc, _ := newTestService()

	in := CreateInput{
		Name:        "",
		Species:     "dinossauro",
		Age:         "filhote",
		Size:        "p",
		Gender:      "macho",
		Description: "curta",
		City:        "",
	}
	_, err := svc.Create(context.Background(), "user-1", in, nil)
	require.Error(t, err)

	fe, ok := err.(validation.FieldErrors)
	require.True(t, ok, "esperava FieldErrors, veio %T", err)

	fields := make(map[string]bool)
	for _, e := range fe {
		fields[e.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["species"])
	assert.True(t, fields["description"])
	assert.True(t, fields["city"])
	assert.False(t, fields["age"])
	assert.False(t, fields["gender"])
}

func TestCreateWithExplicitStatus(t *testing.T) {
	svc, _ := newTestService()

	in := validCreateInput()
	in.Status = "inProcess"
	a, err := svc.Create(context.Background(), "user-1", in, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusInProcess, a.Status)

	in.Status = "qualquer"
	_, err = svc.Create(context.Background(), "user-1", in, nil)
	assert.Error(t, err)
}

func TestUpdateDoesNotTouchAbsentFields(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Create(context.Background(), "user-1", validCreateInput(), nil)
	require.NoError(t, err)
	require.True(t, a.Vaccinated)

	newName := "Rex II"
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Rex II", updated.Name)
	assert.True(t, updated.Vaccinated, "boolean ausente não pode sobrescrever")
	assert.Equal(t, "Dog", updated.Species)
}

func TestUpdateRenormalizesEnums(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Create(context.Background(), "user-1", validCreateInput(), nil)
	require.NoError(t, err)

	sp := "GATA"
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{Species: &sp})
	require.NoError(t, err)
	assert.Equal(t, "Cat", updated.Species)

	bad := "dinossauro"
	_, err = svc.Update(context.Background(), a.ID, UpdateInput{Species: &bad})
	assert.Error(t, err)
}

func TestAdoptionTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "user-1", validCreateInput(), nil)
	require.NoError(t, err)
	require.Equal(t, StatusAvailable, a.Status)

	// aprovação: available -> inProcess
	require.NoError(t, svc.MarkInProcess(ctx, a.ID))
	st, err := svc.StatusOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProcess, st)

	// rejeição: inProcess -> available
	require.NoError(t, svc.MarkAvailable(ctx, a.ID))
	st, err = svc.StatusOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, st)
}

func TestMarkAdoptedIsTerminal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "user-1", validCreateInput(), nil)
	require.NoError(t, err)

	adopted, err := svc.MarkAdopted(ctx, a.ID, "Maria Silva", "maria@email.com")
	require.NoError(t, err)
	assert.Equal(t, StatusAdopted, adopted.Status)
	assert.Equal(t, "Maria Silva", adopted.AdopterName)
	require.NotNil(t, adopted.AdoptedAt)

	// terminal: nenhuma transição sai de adopted
	_, err = svc.MarkAdopted(ctx, a.ID, "Outro", "outro@email.com")
	assert.ErrorIs(t, err, ErrBadState)
	assert.ErrorIs(t, svc.MarkInProcess(ctx, a.ID), ErrBadState)
	assert.ErrorIs(t, svc.MarkAvailable(ctx, a.ID), ErrBadState)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "user-1", validCreateInput(), nil)
	require.NoError(t, err)

	// available -> inProcess pelo update genérico é permitido
	st := "inProcess"
	updated, err := svc.Update(ctx, a.ID, UpdateInput{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, StatusInProcess, updated.Status)

	// repetir o mesmo status é no-op
	updated, err = svc.Update(ctx, a.ID, UpdateInput{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, StatusInProcess, updated.Status)

	_, err = svc.MarkAdopted(ctx, a.ID, "Maria Silva", "maria@email.com")
	require.NoError(t, err)

	// adopted é terminal também pelo update genérico
	back := "available"
	_, err = svc.Update(ctx, a.ID, UpdateInput{Status: &back})
	assert.ErrorIs(t, err, ErrBadState)

	current, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdopted, current.Status)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "rex_1.jpg", sanitizeFilename("rex 1.jpg"))
	assert.Equal(t, "foto", sanitizeFilename(""))
	assert.False(t, strings.Contains(sanitizeFilename("../../etc/passwd"), "/"))
}
