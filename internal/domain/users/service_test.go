package users

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abrigo-animais/internal/platform/validation"
	"abrigo-animais/internal/ports/auth"
	"abrigo-animais/pkg/token"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]User{}}
}

func (r *fakeRepo) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.items {
		if other.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.items[u.ID] = u
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, f ListFilter, page, limit int) ([]User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []User
	for _, u := range r.items {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[u.ID]; !ok {
		return ErrNotFound
	}
	r.items[u.ID] = u
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

func newTestService(t *testing.T) *Service {
	t.Helper()
	tokens, err := token.NewService(token.Config{
		Secret:     "test-secret",
		Issuer:     "abrigo-animais",
		Expiration: time.Hour,
	})
	require.NoError(t, err)
	return NewService(newFakeRepo(), tokens, nil)
}

func validRegister() RegisterInput {
	return RegisterInput{
		Name:     "Maria Silva",
		Email:    "Maria@Example.com",
		Password: "senha-muito-forte",
	}
}

func TestRegisterDefaultsAndHash(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, auth.RoleUser, u.Role)
	assert.Equal(t, StatusActive, u.Status)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2a$"))
	assert.True(t, CheckPassword(u.PasswordHash, "senha-muito-forte"))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "M",
		Email:    "bogus",
		Password: "curta",
	})
	require.Error(t, err)

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesToken(t *testing.T) {
	tokens, err := token.NewService(token.Config{Secret: "test-secret", Issuer: "abrigo-animais"})
	require.NoError(t, err)
	svc := NewService(newFakeRepo(), tokens, nil)

	registered, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	u, signed, err := svc.Login(context.Background(), "maria@example.com", "senha-muito-forte")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "senha-errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// e-mail desconhecido responde igual, sem vazar existência
	_, _, err = svc.Login(context.Background(), "ninguem@example.com", "tanto-faz")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	inactive := string(StatusInactive)
	_, err = svc.AdminUpdate(context.Background(), u.ID, AdminUpdateInput{Status: &inactive})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "senha-muito-forte")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAccountStatusEnum(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	// pending entra no enum e também bloqueia login
	pending := string(StatusPending)
	updated, err := svc.AdminUpdate(context.Background(), u.ID, AdminUpdateInput{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "senha-muito-forte")
	assert.ErrorIs(t, err, ErrAccountDisabled)

	bogus := "suspended"
	_, err = svc.AdminUpdate(context.Background(), u.ID, AdminUpdateInput{Status: &bogus})
	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "senha-errada", "nova-senha-forte")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), u.ID, "senha-muito-forte", "nova-senha-forte")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "nova-senha-forte")
	assert.NoError(t, err)
}

func TestAdminCreateWithRole(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.AdminCreate(context.Background(), "admin-1", AdminCreateInput{
		Name:        "Voluntário Novo",
		Email:       "vol@example.com",
		Password:    "senha-do-voluntario",
		Role:        auth.RoleVolunteer,
		Permissions: []string{"animals:write"},
	})
	require.NoError(t, err)

	assert.Equal(t, auth.RoleVolunteer, u.Role)
	assert.Equal(t, "admin-1", u.CreatedBy)
	assert.Equal(t, []string{"animals:write"}, u.Permissions)
}

func TestAdminCreateRejectsBogusRole(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AdminCreate(context.Background(), "admin-1", AdminCreateInput{
		Name:     "Fulano",
		Email:    "fulano@example.com",
		Password: "senha-qualquer-1",
		Role:     "superuser",
	})
	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "role", errs[0].Field)
}

func TestDeleteCannotDeleteSelf(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), u.ID, u.ID)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)

	err = svc.Delete(context.Background(), u.ID, "someone-else")
	assert.NoError(t, err)
}
