package animals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"abrigo-animais/internal/platform/validation"
	"abrigo-animais/internal/ports/blobstore"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrBadState     = errors.New("invalid status transition")
)

const maxPhotosPerUpload = 5

type Service struct {
	repo  Repository
	blobs blobstore.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, blobs blobstore.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:  repo,
		blobs: blobs,
		log:   log,
		now:   time.Now,
	}
}

// CreateInput chega com texto livre; enums e booleans são normalizados aqui.
// Os campos booleanos são `any` porque o cliente manda bool nativo ou string
// ("true", "1", "on", "yes", "sim").
type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	Age         string
	Size        string
	Gender      string
	Description string
	City        string
	State       string
	Status      string // opcional; default available

	Featured     any
	Vaccinated   any
	Neutered     any
	Dewormed     any
	SpecialNeeds any

	Friendly    any
	Playful     any
	Calm        any
	Protective  any
	Social      any
	Independent any
	Active      any
	Docile      any
}

// PhotoUpload é um arquivo já validado pelo handler (tamanho/MIME).
type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput, photos []PhotoUpload) (Animal, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Animal{}, ErrInvalidInput
	}
	if len(photos) > maxPhotosPerUpload {
		var errs validation.FieldErrors
		errs.Add("photos", fmt.Sprintf("máximo de %d fotos por cadastro", maxPhotosPerUpload))
		return Animal{}, errs
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Species:     normalizeValue(in.Species, SpeciesAliases),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         normalizeValue(in.Age, AgeAliases),
		Size:        normalizeValue(in.Size, SizeAliases),
		Gender:      normalizeValue(in.Gender, GenderAliases),
		Description: strings.TrimSpace(in.Description),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),

		Vaccinated:   CoerceBool(in.Vaccinated),
		Neutered:     CoerceBool(in.Neutered),
		Dewormed:     CoerceBool(in.Dewormed),
		SpecialNeeds: CoerceBool(in.SpecialNeeds),

		Friendly:    CoerceBool(in.Friendly),
		Playful:     CoerceBool(in.Playful),
		Calm:        CoerceBool(in.Calm),
		Protective:  CoerceBool(in.Protective),
		Social:      CoerceBool(in.Social),
		Independent: CoerceBool(in.Independent),
		Active:      CoerceBool(in.Active),
		Docile:      CoerceBool(in.Docile),

		Featured:  CoerceBool(in.Featured),
		Status:    StatusAvailable,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if strings.TrimSpace(in.Status) != "" {
		st := Status(strings.TrimSpace(in.Status))
		if !ValidStatus(st) {
			var errs validation.FieldErrors
			errs.Add("status", "status inválido: use available, inProcess ou adopted")
			return Animal{}, errs
		}
		a.Status = st
	}

	if err := Validate(a); err != nil {
		return Animal{}, err
	}

	uploaded, err := s.uploadPhotos(ctx, photos, true)
	if err != nil {
		return Animal{}, err
	}
	a.Photos = uploaded

	if err := s.repo.Create(ctx, a); err != nil {
		// limpa os blobs que já subiram
		s.deleteBlobs(ctx, uploaded)
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Animal, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// UpdateInput usa ponteiros/any: nil = campo ausente, não toca o persistido.
type UpdateInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Age         *string
	Size        *string
	Gender      *string
	Description *string
	City        *string
	State       *string
	Status      *string

	Featured     any
	Vaccinated   any
	Neutered     any
	Dewormed     any
	SpecialNeeds any

	Friendly    any
	Playful     any
	Calm        any
	Protective  any
	Social      any
	Independent any
	Active      any
	Docile      any
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	applyString(&a.Name, in.Name)
	applyString(&a.Breed, in.Breed)
	applyString(&a.Description, in.Description)
	applyString(&a.City, in.City)
	applyString(&a.State, in.State)

	if v := NormalizeEnum(in.Species, SpeciesAliases); v != nil {
		a.Species = *v
	}
	if v := NormalizeEnum(in.Age, AgeAliases); v != nil {
		a.Age = *v
	}
	if v := NormalizeEnum(in.Size, SizeAliases); v != nil {
		a.Size = *v
	}
	if v := NormalizeEnum(in.Gender, GenderAliases); v != nil {
		a.Gender = *v
	}

	if in.Status != nil {
		st := Status(strings.TrimSpace(*in.Status))
		if !ValidStatus(st) {
			var errs validation.FieldErrors
			errs.Add("status", "status inválido: use available, inProcess ou adopted")
			return Animal{}, errs
		}
		// Mudança de status obedece à máquina de estados; adopted é terminal.
		if st != a.Status {
			if !canChangeStatus(a.Status, st) {
				return Animal{}, ErrBadState
			}
			a.Status = st
		}
	}

	applyBool(&a.Featured, in.Featured)
	applyBool(&a.Vaccinated, in.Vaccinated)
	applyBool(&a.Neutered, in.Neutered)
	applyBool(&a.Dewormed, in.Dewormed)
	applyBool(&a.SpecialNeeds, in.SpecialNeeds)
	applyBool(&a.Friendly, in.Friendly)
	applyBool(&a.Playful, in.Playful)
	applyBool(&a.Calm, in.Calm)
	applyBool(&a.Protective, in.Protective)
	applyBool(&a.Social, in.Social)
	applyBool(&a.Independent, in.Independent)
	applyBool(&a.Active, in.Active)
	applyBool(&a.Docile, in.Docile)

	if err := Validate(a); err != nil {
		return Animal{}, err
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// MarkAdopted move qualquer animal não adotado para adopted, registrando o
// adotante. adopted é terminal: tentar de novo é ErrBadState.
func (s *Service) MarkAdopted(ctx context.Context, id, adopterName, adopterContact string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.Status == StatusAdopted {
		return Animal{}, ErrBadState
	}

	now := s.now()
	a.Status = StatusAdopted
	a.AdopterName = strings.TrimSpace(adopterName)
	a.AdopterContact = strings.TrimSpace(adopterContact)
	a.AdoptedAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// MarkInProcess é disparado quando um pedido de adoção é aprovado.
func (s *Service) MarkInProcess(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusAvailable, StatusInProcess)
}

// MarkAvailable devolve o animal à vitrine quando o pedido é rejeitado.
func (s *Service) MarkAvailable(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusInProcess, StatusAvailable)
}

// StatusOf expõe o status para o módulo de adoções sem ciclo de import.
func (s *Service) StatusOf(ctx context.Context, id string) (Status, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// allowedStatusChanges é a máquina de estados do animal. adopted não aparece
// como origem: é terminal.
var allowedStatusChanges = map[Status][]Status{
	StatusAvailable: {StatusInProcess, StatusAdopted},
	StatusInProcess: {StatusAvailable, StatusAdopted},
}

func canChangeStatus(from, to Status) bool {
	for _, allowed := range allowedStatusChanges[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) transition(ctx context.Context, id string, from, to Status) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status == to {
		return nil // idempotente
	}
	if a.Status != from {
		return ErrBadState
	}
	a.Status = to
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// AddPhotos sobe novas fotos e as anexa ao animal.
func (s *Service) AddPhotos(ctx context.Context, id string, photos []PhotoUpload) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if len(photos) == 0 || len(photos) > maxPhotosPerUpload {
		return Animal{}, ErrInvalidInput
	}

	uploaded, err := s.uploadPhotos(ctx, photos, len(a.Photos) == 0)
	if err != nil {
		return Animal{}, err
	}

	a.Photos = append(a.Photos, uploaded...)
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		s.deleteBlobs(ctx, uploaded)
		return Animal{}, err
	}
	return a, nil
}

// RemovePhoto tira a foto pelo índice e apaga o blob (melhor esforço).
func (s *Service) RemovePhoto(ctx context.Context, id string, index int) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if index < 0 || index >= len(a.Photos) {
		return Animal{}, ErrInvalidInput
	}

	removed := a.Photos[index]
	a.Photos = append(a.Photos[:index:index], a.Photos[index+1:]...)

	// Se a principal saiu, promove a primeira restante.
	if removed.IsMain && len(a.Photos) > 0 {
		a.Photos[0].IsMain = true
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}

	s.deleteBlobs(ctx, []Photo{removed})
	return a, nil
}

// Delete remove o registro e apaga os blobs (melhor esforço).
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteBlobs(ctx, a.Photos)
	return nil
}

func (s *Service) uploadPhotos(ctx context.Context, photos []PhotoUpload, firstIsMain bool) ([]Photo, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if s.blobs == nil {
		return nil, errors.New("blob store not configured")
	}

	out := make([]Photo, 0, len(photos))
	for i, up := range photos {
		path := photoPath(up.Filename)
		obj, err := s.blobs.Put(ctx, path, up.Reader, &blobstore.PutOptions{ContentType: up.ContentType})
		if err != nil {
			s.deleteBlobs(ctx, out)
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		out = append(out, Photo{
			URL:         obj.URL,
			StoragePath: obj.Path,
			IsMain:      firstIsMain && i == 0,
		})
	}
	return out, nil
}

func (s *Service) deleteBlobs(ctx context.Context, photos []Photo) {
	if s.blobs == nil {
		return
	}
	for _, p := range photos {
		if p.StoragePath == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, p.StoragePath); err != nil {
			s.log.Warn("failed to delete photo blob",
				zap.String("path", p.StoragePath),
				zap.Error(err))
		}
	}
}

// photoPath gera animals/YYYY/MM/<uuid8>-<arquivo-sanitizado>.
func photoPath(filename string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("animals/%04d/%02d/%s-%s",
		now.Year(), now.Month(), uuid.NewString()[:8], sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	var b strings.Builder
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "foto"
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func applyBool(dst *bool, v any) {
	if p := CoerceBoolPtr(v); p != nil {
		*dst = *p
	}
}
