package shelterevents

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
	ErrNotFound          = errors.New("event not found")
	ErrBadState          = errors.New("invalid status transition")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("participant already registered")
	ErrInvalidInput      = errors.New("invalid input")
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
	Title       string
	Description string
	Type        string

	StartsAt time.Time
	EndsAt   *time.Time

	Location  string
	Latitude  *float64
	Longitude *float64

	MaxParticipants *int
	Public          bool
}

func validateInput(in CreateInput) error {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(in.Title))) < 3 {
		errs.Add("title", "título deve ter pelo menos 3 caracteres")
	}
	if !ValidType(Type(strings.TrimSpace(in.Type))) {
		errs.Add("type", "tipo inválido: use adoptionFair, fundraising, volunteering, educational ou other")
	}
	if in.StartsAt.IsZero() {
		errs.Add("startsAt", "data de início é obrigatória")
	}
	if in.EndsAt != nil && !in.StartsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		errs.Add("endsAt", "término não pode ser antes do início")
	}
	if strings.TrimSpace(in.Location) == "" {
		errs.Add("location", "local é obrigatório")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		errs.Add("maxParticipants", "limite de vagas deve ser maior que zero")
	}
	return errs.Err()
}

func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (Event, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Event{}, ErrInvalidInput
	}
	if err := validateInput(in); err != nil {
		return Event{}, err
	}

	now := s.now()
	e := Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Type:        Type(strings.TrimSpace(in.Type)),

		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,

		Location:  strings.TrimSpace(in.Location),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,

		MaxParticipants: in.MaxParticipants,

		Status: StatusPlanned,
		Public: in.Public,

		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListPublic é a agenda pública; upcoming limita ao que ainda vai começar.
func (s *Service) ListPublic(ctx context.Context, eventType Type, upcoming bool, page, limit int) ([]Event, int64, error) {
	f := ListFilter{
		Type:       eventType,
		PublicOnly: true,
	}
	if upcoming {
		now := s.now()
		f.UpcomingAfter = &now
	}
	return s.repo.List(ctx, f, page, limit)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Event, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// UpdateInput usa ponteiros: nil = campo ausente, não toca o persistido.
type UpdateInput struct {
	Title       *string
	Description *string
	Type        *string

	StartsAt *time.Time
	EndsAt   *time.Time

	Location  *string
	Latitude  *float64
	Longitude *float64

	MaxParticipants *int
	Public          *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Event{}, err
	}

	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		e.Type = Type(strings.TrimSpace(*in.Type))
	}
	if in.StartsAt != nil {
		e.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		e.EndsAt = in.EndsAt
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.Latitude != nil {
		e.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		e.Longitude = in.Longitude
	}
	if in.MaxParticipants != nil {
		e.MaxParticipants = in.MaxParticipants
	}
	if in.Public != nil {
		e.Public = *in.Public
	}

	var errs validation.FieldErrors
	if len([]rune(e.Title)) < 3 {
		errs.Add("title", "título deve ter pelo menos 3 caracteres")
	}
	if !ValidType(e.Type) {
		errs.Add("type", "tipo inválido")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		errs.Add("endsAt", "término não pode ser antes do início")
	}
	if e.Location == "" {
		errs.Add("location", "local é obrigatório")
	}
	// o limite não pode ficar abaixo de quem já se inscreveu
	if e.MaxParticipants != nil && *e.MaxParticipants < len(e.Participants) {
		errs.Add("maxParticipants", "limite de vagas menor que o número de inscritos")
	}
	if err := errs.Err(); err != nil {
		return Event{}, err
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// transições permitidas por status atual.
var allowedTransitions = map[Status][]Status{
	StatusPlanned:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (Event, error) {
	switch to {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
	default:
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Event{}, err
	}
	if !canTransition(e.Status, to) {
		return Event{}, ErrBadState
	}

	e.Status = to
	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Participate inscreve alguém no evento. Evento lotado ou e-mail repetido
// são recusados.
func (s *Service) Participate(ctx context.Context, id, name, email string) (Event, error) {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(name))) < 2 {
		errs.Add("name", "nome deve ter pelo menos 2 caracteres")
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		errs.Add("email", "e-mail inválido")
	}
	if err := errs.Err(); err != nil {
		return Event{}, err
	}

	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Event{}, err
	}
	if e.Status == StatusCancelled || e.Status == StatusCompleted {
		return Event{}, ErrBadState
	}
	if e.Full() {
		return Event{}, ErrEventFull
	}

	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range e.Participants {
		if p.Email == email {
			return Event{}, ErrAlreadyRegistered
		}
	}

	now := s.now()
	e.Participants = append(e.Participants, Participant{
		Name:         strings.TrimSpace(name),
		Email:        email,
		RegisteredAt: now,
	})
	e.UpdatedAt = now

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// SendReminder dispara o lembrete para todos os inscritos (melhor esforço)
// e devolve quantos e-mails foram enfileirados.
func (s *Service) SendReminder(ctx context.Context, id string) (int, error) {
	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return 0, err
	}
	if e.Status == StatusCancelled {
		return 0, ErrBadState
	}
	if s.mail == nil {
		return 0, nil
	}

	for _, p := range e.Participants {
		s.mail.Dispatch("event_reminder", notify.BuildEventReminder(p.Email, notify.EventReminderData{
			Name:       p.Name,
			EventTitle: e.Title,
			StartsAt:   e.StartsAt,
			Location:   e.Location,
		}))
	}
	return len(e.Participants), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
