package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"abrigo-animais/internal/domain/animals"
	"abrigo-animais/internal/platform/validation"
	"abrigo-animais/internal/ports/blobstore"
)

var (
	ErrNotFound     = errors.New("news article not found")
	ErrSlugConflict = errors.New("slug already in use")
	ErrInvalidInput = errors.New("invalid input")
	ErrBadState     = errors.New("invalid status transition")
)

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

// ParseTags aceita lista ou string separada por vírgulas e devolve as tags
// aparadas, sem vazios e sem repetição, na ordem em que chegaram.
func ParseTags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{fmt.Sprint(v)}
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func validateArticle(a Article) error {
	var errs validation.FieldErrors

	titleLen := len([]rune(a.Title))
	if titleLen < 5 || titleLen > 255 {
		errs.Add("title", "título deve ter entre 5 e 255 caracteres")
	}
	if len([]rune(a.Content)) < 50 {
		errs.Add("content", "conteúdo deve ter pelo menos 50 caracteres")
	}
	if excerptLen := len([]rune(a.Excerpt)); excerptLen < 10 || excerptLen > 200 {
		errs.Add("excerpt", "resumo deve ter entre 10 e 200 caracteres")
	}
	// archived não é aceito direto do cliente, só via arquivamento.
	if a.Status != StatusDraft && a.Status != StatusPublished {
		errs.Add("status", "status inválido: use draft ou published")
	}
	return errs.Err()
}

// CreateInput chega com texto livre; tags aceitam lista ou string com vírgulas
// e Featured aceita bool ou string truthy.
type CreateInput struct {
	Title    string
	Content  string
	Excerpt  string
	Status   string // opcional; default draft
	Tags     any
	Featured any
}

// ImageUpload é a imagem de capa já validada pelo handler.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput, image *ImageUpload) (Article, error) {
	if strings.TrimSpace(authorID) == "" {
		return Article{}, ErrInvalidInput
	}

	now := s.now()
	a := Article{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Tags:      ParseTags(in.Tags),
		Featured:  animals.CoerceBool(in.Featured),
		Status:    StatusDraft,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if st := strings.TrimSpace(in.Status); st != "" {
		a.Status = Status(st)
	}

	if err := validateArticle(a); err != nil {
		return Article{}, err
	}

	// O slug nasce do título e não muda mais.
	a.Slug = Slugify(a.Title)
	if a.Status == StatusPublished {
		a.PublishedAt = &now
	}

	if image != nil {
		obj, err := s.uploadImage(ctx, *image)
		if err != nil {
			return Article{}, err
		}
		a.ImageURL = obj.URL
		a.ImageStoragePath = obj.Path
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if a.ImageStoragePath != "" {
			s.deleteBlob(ctx, a.ImageStoragePath)
		}
		return Article{}, err
	}
	return a, nil
}

// GetPublished resolve id ou slug, só devolve notícia publicada e conta a
// leitura no contador de views.
func (s *Service) GetPublished(ctx context.Context, idOrSlug string) (Article, error) {
	a, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return Article{}, err
	}
	if a.Status != StatusPublished {
		return Article{}, ErrNotFound
	}

	if err := s.repo.IncrementViews(ctx, a.ID); err != nil {
		s.log.Warn("failed to increment news views",
			zap.String("id", a.ID),
			zap.Error(err))
	} else {
		a.Views++
	}
	return a, nil
}

// GetByID devolve a notícia em qualquer status (painel administrativo).
func (s *Service) GetByID(ctx context.Context, id string) (Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Article{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListPublished é a vitrine pública.
func (s *Service) ListPublished(ctx context.Context, tag, search string, page, limit int) ([]Article, int64, error) {
	return s.repo.List(ctx, ListFilter{
		Status: StatusPublished,
		Tag:    tag,
		Search: search,
	}, page, limit)
}

// List é a listagem administrativa, com qualquer status.
func (s *Service) List(ctx context.Context, f ListFilter, page, limit int) ([]Article, int64, error) {
	return s.repo.List(ctx, f, page, limit)
}

// UpdateInput usa ponteiros/any: nil = campo ausente, não toca o persistido.
type UpdateInput struct {
	Title    *string
	Content  *string
	Excerpt  *string
	Status   *string
	Tags     any
	Featured any
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput, image *ImageUpload) (Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Article{}, err
	}

	if in.Title != nil {
		// editar o título não mexe no slug já gravado
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		a.Content = strings.TrimSpace(*in.Content)
	}
	if in.Excerpt != nil {
		a.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Tags != nil {
		a.Tags = ParseTags(in.Tags)
	}
	if p := animals.CoerceBoolPtr(in.Featured); p != nil {
		a.Featured = *p
	}

	now := s.now()
	if in.Status != nil {
		to := Status(strings.TrimSpace(*in.Status))
		// arquivada é estado final: não volta para rascunho nem republicação
		if a.Status == StatusArchived && to != StatusArchived {
			return Article{}, ErrBadState
		}
		switch to {
		case StatusPublished:
			// o carimbo só é gravado na primeira publicação
			if a.PublishedAt == nil {
				a.PublishedAt = &now
			}
		case StatusDraft:
			a.PublishedAt = nil
		case StatusArchived:
			// arquivar preserva o histórico de publicação
		default:
			var errs validation.FieldErrors
			errs.Add("status", "status inválido: use draft, published ou archived")
			return Article{}, errs
		}
		a.Status = to
	}

	if a.Status != StatusArchived {
		if err := validateArticle(a); err != nil {
			return Article{}, err
		}
	}

	if image != nil {
		obj, err := s.uploadImage(ctx, *image)
		if err != nil {
			return Article{}, err
		}
		if a.ImageStoragePath != "" {
			s.deleteBlob(ctx, a.ImageStoragePath)
		}
		a.ImageURL = obj.URL
		a.ImageStoragePath = obj.Path
	}

	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Article{}, err
	}
	return a, nil
}

// Delete remove a notícia e apaga a imagem (melhor esforço).
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if a.ImageStoragePath != "" {
		s.deleteBlob(ctx, a.ImageStoragePath)
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, idOrSlug string) (Article, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return Article{}, ErrNotFound
	}
	if a, err := s.repo.GetByID(ctx, idOrSlug); err == nil {
		return a, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Article{}, err
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

func (s *Service) uploadImage(ctx context.Context, up ImageUpload) (blobstore.Object, error) {
	if s.blobs == nil {
		return blobstore.Object{}, errors.New("blob store not configured")
	}
	path := imagePath(up.Filename)
	obj, err := s.blobs.Put(ctx, path, up.Reader, &blobstore.PutOptions{ContentType: up.ContentType})
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("upload image: %w", err)
	}
	return obj, nil
}

func (s *Service) deleteBlob(ctx context.Context, path string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warn("failed to delete news image blob",
			zap.String("path", path),
			zap.Error(err))
	}
}

func imagePath(filename string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("news/%04d/%02d/%s-%s",
		now.Year(), now.Month(), uuid.NewString()[:8], sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
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
		return "imagem"
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
