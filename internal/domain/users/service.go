package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"abrigo-animais/internal/platform/validation"
	"abrigo-animais/internal/ports/auth"
	"abrigo-animais/pkg/token"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrCannotDeleteSelf   = errors.New("cannot delete own account")
	ErrInvalidInput       = errors.New("invalid input")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const bcryptCost = 12

// HashPassword gera o hash bcrypt. Chamada explícita no caminho de escrita,
// nada de callback implícito de persistência.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compara a senha com o hash armazenado.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type Service struct {
	repo   Repository
	tokens *token.Service
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, tokens *token.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

func validateCredentials(name, email, password string) validation.FieldErrors {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(name))) < 2 {
		errs.Add("name", "nome deve ter pelo menos 2 caracteres")
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		errs.Add("email", "e-mail inválido")
	}
	if len(password) < 8 {
		errs.Add("password", "senha deve ter pelo menos 8 caracteres")
	}
	return errs
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register é o auto-cadastro público: sempre role user e status active.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := validateCredentials(in.Name, in.Email, in.Password).Err(); err != nil {
		return User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         auth.RoleUser,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifica as credenciais e emite o bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return User{}, "", ErrInvalidCredentials
	}
	if u.Status != StatusActive {
		return User{}, "", ErrAccountDisabled
	}

	signed, err := s.tokens.Sign(token.Claims{
		Subject: u.ID,
		UserID:  u.ID,
		Email:   u.Email,
		Role:    u.Role,
	})
	if err != nil {
		return User{}, "", err
	}
	return u, signed, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]User, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

type ProfileInput struct {
	Name  *string
	Phone *string
}

// UpdateProfile deixa o próprio usuário mexer em nome e telefone.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < 2 {
			var errs validation.FieldErrors
			errs.Add("name", "nome deve ter pelo menos 2 caracteres")
			return User{}, errs
		}
		u.Name = name
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// ChangePassword exige a senha atual antes de trocar.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		var errs validation.FieldErrors
		errs.Add("newPassword", "senha deve ter pelo menos 8 caracteres")
		return errs
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()
	return s.repo.Update(ctx, u)
}

type AdminCreateInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	Role        string
	Status      string
	Permissions []string
}

// AdminCreate cadastra uma conta pelo painel, com role e status explícitos.
func (s *Service) AdminCreate(ctx context.Context, createdBy string, in AdminCreateInput) (User, error) {
	errs := validateCredentials(in.Name, in.Email, in.Password)

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = auth.RoleUser
	}
	if !validRole(role) {
		errs.Add("role", "papel inválido: use admin, moderator, volunteer ou user")
	}

	status := StatusActive
	if st := Status(strings.TrimSpace(in.Status)); st != "" {
		if !ValidStatus(st) {
			errs.Add("status", "status inválido: use active, inactive ou pending")
		} else {
			status = st
		}
	}
	if err := errs.Err(); err != nil {
		return User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		Permissions:  in.Permissions,
		CreatedBy:    strings.TrimSpace(createdBy),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

type AdminUpdateInput struct {
	Name        *string
	Phone       *string
	Role        *string
	Status      *string
	Permissions []string
}

// AdminUpdate mexe em papel, status e permissões pelo painel.
func (s *Service) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}

	var errs validation.FieldErrors
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < 2 {
			errs.Add("name", "nome deve ter pelo menos 2 caracteres")
		} else {
			u.Name = name
		}
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil {
		role := strings.TrimSpace(*in.Role)
		if !validRole(role) {
			errs.Add("role", "papel inválido: use admin, moderator, volunteer ou user")
		} else {
			u.Role = role
		}
	}
	if in.Status != nil {
		st := Status(strings.TrimSpace(*in.Status))
		if !ValidStatus(st) {
			errs.Add("status", "status inválido: use active, inactive ou pending")
		} else {
			u.Status = st
		}
	}
	if in.Permissions != nil {
		u.Permissions = in.Permissions
	}
	if err := errs.Err(); err != nil {
		return User{}, err
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete remove a conta; ninguém apaga a si mesmo.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	id = strings.TrimSpace(id)
	if id == strings.TrimSpace(actorID) {
		return ErrCannotDeleteSelf
	}
	return s.repo.Delete(ctx, id)
}

func validRole(role string) bool {
	switch role {
	case auth.RoleAdmin, auth.RoleModerator, auth.RoleVolunteer, auth.RoleUser:
		return true
	}
	return false
}
