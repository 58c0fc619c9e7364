package contacts

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/platform/validation"
)

var (
	ErrNotFound     = errors.New("contact message not found")
	ErrInvalidInput = errors.New("invalid input")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo Repository
	mail *notify.Dispatcher
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, mail *notify.Dispatcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		mail: mail,
		log:  log,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Priority string
	Category string
}

// Create registra uma mensagem do formulário público. Entra sempre como new.
func (s *Service) Create(ctx context.Context, in CreateInput) (Contact, error) {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(in.Name))) < 2 {
		errs.Add("name", "nome deve ter pelo menos 2 caracteres")
	}
	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		errs.Add("email", "e-mail inválido")
	}
	if strings.TrimSpace(in.Subject) == "" {
		errs.Add("subject", "assunto é obrigatório")
	}
	if len([]rune(strings.TrimSpace(in.Message))) < 10 {
		errs.Add("message", "mensagem deve ter pelo menos 10 caracteres")
	}

	priority := PriorityNormal
	if p := Priority(strings.TrimSpace(in.Priority)); p != "" {
		if !ValidPriority(p) {
			errs.Add("priority", "prioridade inválida: use low, normal ou high")
		} else {
			priority = p
		}
	}
	if err := errs.Err(); err != nil {
		return Contact{}, err
	}

	now := s.now()
	c := Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    StatusNew,
		Priority:  priority,
		Category:  strings.TrimSpace(in.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Category == "" {
		c.Category = "geral"
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// GetByID abre a mensagem no painel; a primeira leitura move new -> read.
func (s *Service) GetByID(ctx context.Context, id string) (Contact, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Contact{}, err
	}

	if c.Status == StatusNew {
		c.Status = StatusRead
		c.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, c); err != nil {
			s.log.Warn("failed to mark contact as read",
				zap.String("id", c.ID),
				zap.Error(err))
		}
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Contact, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// Respond registra a resposta, move para responded e envia a resposta por
// e-mail ao remetente (melhor esforço).
func (s *Service) Respond(ctx context.Context, id, responderID, response string) (Contact, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		var errs validation.FieldErrors
		errs.Add("response", "resposta não pode ser vazia")
		return Contact{}, errs
	}

	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Contact{}, err
	}

	now := s.now()
	c.Status = StatusResponded
	c.ResponderID = strings.TrimSpace(responderID)
	c.Response = response
	c.RespondedAt = &now
	c.UpdatedAt = now

	if err := s.repo.Update(ctx, c); err != nil {
		return Contact{}, err
	}

	if s.mail != nil {
		s.mail.Dispatch("contact_response", notify.BuildContactResponse(c.Email, notify.ContactResponseData{
			Name:     c.Name,
			Subject:  c.Subject,
			Response: c.Response,
		}))
	}
	return c, nil
}

// UpdateStatus move a mensagem manualmente (arquivar, reabrir como read).
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (Contact, error) {
	if !ValidStatus(to) {
		return Contact{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Contact{}, err
	}

	c.Status = to
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
