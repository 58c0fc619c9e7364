package adoptions

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"abrigo-animais/internal/domain/animals"
	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/platform/validation"
)

var (
	ErrNotFound = errors.New("adoption request not found")
	// ErrDuplicate: já existe pedido ativo do mesmo interessado para o mesmo animal.
	ErrDuplicate = errors.New("active adoption request already exists")
	// ErrAnimalUnavailable: o animal não está disponível para adoção.
	ErrAnimalUnavailable = errors.New("animal is not available for adoption")
	ErrBadState          = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo    Repository
	animals *animals.Service
	mail    *notify.Dispatcher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, animalSvc *animals.Service, mail *notify.Dispatcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		animals: animalSvc,
		mail:    mail,
		log:     log,
		now:     time.Now,
	}
}

type CreateInput struct {
	AnimalID     string
	AdopterName  string
	AdopterEmail string
	AdopterPhone string

	Profession   string
	HousingType  string
	HasYard      bool
	HasOtherPets bool
	OtherPets    string
	HasChildren  bool

	Motivation string
}

func validateInput(in CreateInput) error {
	var errs validation.FieldErrors
	if len([]rune(strings.TrimSpace(in.AdopterName))) < 2 {
		errs.Add("adopterName", "nome deve ter pelo menos 2 caracteres")
	}
	if !emailRe.MatchString(strings.TrimSpace(in.AdopterEmail)) {
		errs.Add("adopterEmail", "e-mail inválido")
	}
	if len(strings.TrimSpace(in.AdopterPhone)) < 10 {
		errs.Add("adopterPhone", "telefone deve ter pelo menos 10 caracteres")
	}
	if len([]rune(strings.TrimSpace(in.Motivation))) < 10 {
		errs.Add("motivation", "motivação deve ter pelo menos 10 caracteres")
	}
	return errs.Err()
}

// Create registra um pedido de adoção. O animal precisa existir e estar
// disponível, e não pode haver outro pedido ativo do mesmo e-mail para o
// mesmo animal.
func (s *Service) Create(ctx context.Context, in CreateInput) (Adoption, error) {
	if err := validateInput(in); err != nil {
		return Adoption{}, err
	}

	animal, err := s.animals.GetByID(ctx, strings.TrimSpace(in.AnimalID))
	if err != nil {
		return Adoption{}, err
	}
	if animal.Status != animals.StatusAvailable {
		return Adoption{}, ErrAnimalUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(in.AdopterEmail))
	if _, exists, err := s.repo.FindActive(ctx, animal.ID, email); err != nil {
		return Adoption{}, err
	} else if exists {
		return Adoption{}, ErrDuplicate
	}

	now := s.now()
	a := Adoption{
		ID:       uuid.NewString(),
		AnimalID: animal.ID,

		AdopterName:  strings.TrimSpace(in.AdopterName),
		AdopterEmail: email,
		AdopterPhone: strings.TrimSpace(in.AdopterPhone),

		Profession:   strings.TrimSpace(in.Profession),
		HousingType:  strings.TrimSpace(in.HousingType),
		HasYard:      in.HasYard,
		HasOtherPets: in.HasOtherPets,
		OtherPets:    strings.TrimSpace(in.OtherPets),
		HasChildren:  in.HasChildren,

		Motivation: strings.TrimSpace(in.Motivation),

		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Adoption{}, err
	}

	if s.mail != nil {
		data := notify.AdoptionEmailData{
			AdopterName: a.AdopterName,
			AnimalName:  animal.Name,
			Status:      string(a.Status),
		}
		s.mail.Dispatch("adoption_received", notify.BuildAdoptionReceived(a.AdopterEmail, data))
		s.mail.Dispatch("adoption_alert", notify.BuildAdoptionAlert(s.mail.ShelterInbox(), data))
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Adoption, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Adoption{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Adoption, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// transições permitidas por status atual.
var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusInReview, StatusApproved, StatusRejected},
	StatusInReview: {StatusApproved, StatusRejected},
}

func canTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// UpdateStatus move o pedido no fluxo de revisão, registra quem revisou e
// dispara a transição correspondente no animal: aprovado -> inProcess,
// rejeitado -> available. O interessado é avisado por e-mail (melhor esforço).
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status, reviewedBy string) (Adoption, error) {
	switch to {
	case StatusInReview, StatusApproved, StatusRejected:
	default:
		return Adoption{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Adoption{}, err
	}
	if !canTransition(a.Status, to) {
		return Adoption{}, ErrBadState
	}

	// A transição do animal vem antes de persistir o pedido: se o animal
	// não puder mudar (já adotado, por exemplo), o pedido não avança.
	switch to {
	case StatusApproved:
		if err := s.animals.MarkInProcess(ctx, a.AnimalID); err != nil {
			return Adoption{}, err
		}
	case StatusRejected:
		if err := s.animals.MarkAvailable(ctx, a.AnimalID); err != nil {
			return Adoption{}, err
		}
	}

	now := s.now()
	a.Status = to
	a.ReviewedBy = strings.TrimSpace(reviewedBy)
	a.ReviewedAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Adoption{}, err
	}

	if s.mail != nil {
		animalName := a.AnimalID
		if animal, err := s.animals.GetByID(ctx, a.AnimalID); err == nil {
			animalName = animal.Name
		}
		s.mail.Dispatch("adoption_status", notify.BuildAdoptionStatusChanged(a.AdopterEmail, notify.AdoptionEmailData{
			AdopterName: a.AdopterName,
			AnimalName:  animalName,
			Status:      string(a.Status),
		}))
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
