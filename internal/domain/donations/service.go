package donations

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
	ErrNotFound     = errors.New("donation not found")
	ErrBadState     = errors.New("invalid status transition")
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
	DonorName  string
	DonorEmail string
	DonorPhone string

	Type        string
	Amount      *float64
	Description string

	Recurring          bool
	RecurrenceInterval string
}

// Create registra uma doação, sempre em pending, e agradece por e-mail
// (melhor esforço). registrarID fica vazio no formulário público.
func (s *Service) Create(ctx context.Context, registrarID string, in CreateInput) (Donation, error) {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(in.DonorName))) < 2 {
		errs.Add("donorName", "nome deve ter pelo menos 2 caracteres")
	}
	if !emailRe.MatchString(strings.TrimSpace(in.DonorEmail)) {
		errs.Add("donorEmail", "e-mail inválido")
	}

	dType := Type(strings.TrimSpace(in.Type))
	if !ValidType(dType) {
		errs.Add("type", "tipo inválido: use money, food, medicine, supplies ou other")
	}
	if in.Amount != nil && *in.Amount < 0 {
		errs.Add("amount", "valor não pode ser negativo")
	}
	if dType == TypeMoney && in.Amount == nil {
		errs.Add("amount", "doação em dinheiro exige valor")
	}
	if err := errs.Err(); err != nil {
		return Donation{}, err
	}

	now := s.now()
	d := Donation{
		ID:         uuid.NewString(),
		DonorName:  strings.TrimSpace(in.DonorName),
		DonorEmail: strings.ToLower(strings.TrimSpace(in.DonorEmail)),
		DonorPhone: strings.TrimSpace(in.DonorPhone),

		Type:        dType,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),

		Status: StatusPending,

		Recurring:          in.Recurring,
		RecurrenceInterval: strings.TrimSpace(in.RecurrenceInterval),

		RegistrarID: strings.TrimSpace(registrarID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Donation{}, err
	}

	if s.mail != nil {
		data := notify.DonationEmailData{
			DonorName:    d.DonorName,
			DonationType: string(d.Type),
		}
		if d.Amount != nil {
			data.Amount = *d.Amount
		}
		s.mail.Dispatch("donation_received", notify.BuildDonationReceived(d.DonorEmail, data))
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donation{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Donation, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// transições permitidas por status atual.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReceived, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (Donation, error) {
	switch to {
	case StatusConfirmed, StatusReceived, StatusCancelled:
	default:
		return Donation{}, ErrInvalidInput
	}

	d, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Donation{}, err
	}
	if !canTransition(d.Status, to) {
		return Donation{}, ErrBadState
	}

	d.Status = to
	d.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, d); err != nil {
		return Donation{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
