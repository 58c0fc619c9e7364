package news

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
	"abrigo-animais/internal/ports/auth"
)

const (
	maxUploadBytes = 10 << 20
	maxImageBytes  = 5 << 20
	imageFormField = "image"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// RegisterRoutes monta a vitrine pública em /news e o painel em /admin/news.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/news", func(nr chi.Router) {
		nr.Get("/", listPublishedHandler(svc))
		nr.Post("/", createHandler(svc))
		nr.Get("/{idOrSlug}", getPublishedHandler(svc))
		nr.Put("/{newsID}", updateHandler(svc))
		nr.Delete("/{newsID}", deleteHandler(svc))
	})
	r.Route("/admin/news", func(nr chi.Router) {
		nr.Get("/", adminListHandler(svc))
		nr.Get("/{newsID}", adminGetHandler(svc))
	})
}

type newsResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	Slug     string   `json:"slug"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`

	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Views       int64      `json:"views"`

	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(a Article) newsResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return newsResponse{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		Excerpt:     a.Excerpt,
		Slug:        a.Slug,
		ImageURL:    a.ImageURL,
		Tags:        tags,
		Featured:    a.Featured,
		Status:      string(a.Status),
		PublishedAt: a.PublishedAt,
		Views:       a.Views,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// listPublishedHandler é público: só notícias publicadas.
//
//	GET /news?tag=&search=&page=&limit=
func listPublishedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, limit := web.PageParams(r)

		items, total, err := svc.ListPublished(r.Context(), q.Get("tag"), q.Get("search"), page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar notícias")
			return
		}

		out := make([]newsResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

// getPublishedHandler aceita id ou slug e conta a leitura.
func getPublishedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetPublished(r.Context(), chi.URLParam(r, "idOrSlug"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(a))
	}
}

// createHandler recebe multipart/form-data com os campos de texto e a capa
// opcional no campo "image".
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			web.WriteError(w, http.StatusBadRequest, "multipart inválido ou acima do limite de 10MB")
			return
		}

		image, badImage := formImage(r)
		if badImage != "" {
			web.WriteError(w, http.StatusBadRequest, badImage)
			return
		}
		if image != nil {
			defer image.file.Close()
		}

		in := CreateInput{
			Title:    r.FormValue("title"),
			Content:  r.FormValue("content"),
			Excerpt:  r.FormValue("excerpt"),
			Status:   r.FormValue("status"),
			Tags:     formTags(r),
			Featured: formValueOrNil(r, "featured"),
		}

		a, err := svc.Create(r.Context(), claims.UserID, in, image.toUpload())
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "notícia criada com sucesso", "news", toResponse(a))
	}
}

type updateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Excerpt  *string `json:"excerpt"`
	Status   *string `json:"status"`
	Tags     any     `json:"tags"`
	Featured any     `json:"featured"`
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if _, ok := authorizeArticle(w, r, svc, claims); !ok {
			return
		}

		var in UpdateInput
		var image *formFile

		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				web.WriteError(w, http.StatusBadRequest, "multipart inválido ou acima do limite de 10MB")
				return
			}

			var badImage string
			image, badImage = formImage(r)
			if badImage != "" {
				web.WriteError(w, http.StatusBadRequest, badImage)
				return
			}
			if image != nil {
				defer image.file.Close()
			}

			in = UpdateInput{
				Title:    formStringOrNil(r, "title"),
				Content:  formStringOrNil(r, "content"),
				Excerpt:  formStringOrNil(r, "excerpt"),
				Status:   formStringOrNil(r, "status"),
				Tags:     formTags(r),
				Featured: formValueOrNil(r, "featured"),
			}
		} else {
			var req updateRequest
			if err := web.DecodeJSON(r, &req); err != nil {
				web.WriteError(w, http.StatusBadRequest, "JSON inválido")
				return
			}
			in = UpdateInput{
				Title:    req.Title,
				Content:  req.Content,
				Excerpt:  req.Excerpt,
				Status:   req.Status,
				Tags:     req.Tags,
				Featured: req.Featured,
			}
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "newsID"), in, image.toUpload())
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "notícia atualizada com sucesso", "news", toResponse(a))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem excluir notícias")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "newsID")); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "notícia excluída com sucesso", "", nil)
	}
}

// adminListHandler lista em qualquer status (rascunhos inclusive).
func adminListHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		q := r.URL.Query()
		page, limit := web.PageParams(r)
		f := ListFilter{
			Status: Status(q.Get("status")),
			Tag:    q.Get("tag"),
			Search: q.Get("search"),
		}

		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar notícias")
			return
		}

		out := make([]newsResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

// adminGetHandler lê sem filtrar por status e sem contar view.
func adminGetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "newsID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(a))
	}
}

func requireAuth(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
		return auth.Claims{}, false
	}
	return claims, true
}

// authorizeArticle carrega a notícia e autoriza autor ou admin.
func authorizeArticle(w http.ResponseWriter, r *http.Request, svc *Service, claims auth.Claims) (Article, bool) {
	a, err := svc.GetByID(r.Context(), chi.URLParam(r, "newsID"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "notícia não encontrada")
		return Article{}, false
	}
	if a.AuthorID != claims.UserID && !claims.IsAdmin() {
		web.WriteError(w, http.StatusForbidden, "sem permissão sobre esta notícia")
		return Article{}, false
	}
	return a, true
}

type formFile struct {
	file        multipart.File
	header      *multipart.FileHeader
	contentType string
}

func (f *formFile) toUpload() *ImageUpload {
	if f == nil {
		return nil
	}
	return &ImageUpload{
		Filename:    f.header.Filename,
		ContentType: f.contentType,
		Reader:      f.file,
	}
}

// formImage valida tamanho e tipo ANTES de qualquer chamada ao bucket.
func formImage(r *http.Request) (*formFile, string) {
	if r.MultipartForm == nil {
		return nil, ""
	}
	headers := r.MultipartForm.File[imageFormField]
	if len(headers) == 0 {
		return nil, ""
	}

	h := headers[0]
	if h.Size > maxImageBytes {
		return nil, "a imagem deve ter no máximo 5MB"
	}

	ct := h.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if !allowedImageTypes[ct] || !allowedImageExts[ext] {
		return nil, "formato de imagem não suportado: use JPEG, PNG ou WebP"
	}

	f, err := h.Open()
	if err != nil {
		return nil, "falha ao ler arquivo enviado"
	}
	return &formFile{file: f, header: h, contentType: ct}, ""
}

// formTags devolve nil quando o campo não veio; lista ou string com vírgulas
// são aceitas pelo ParseTags.
func formTags(r *http.Request) any {
	if r.Form == nil {
		return nil
	}
	vs, ok := r.Form["tags"]
	if !ok || len(vs) == 0 {
		return nil
	}
	if len(vs) > 1 {
		return vs
	}
	return vs[0]
}

func formStringOrNil(r *http.Request, key string) *string {
	if r.Form == nil {
		return nil
	}
	vs, ok := r.Form[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

func formValueOrNil(r *http.Request, key string) any {
	if r.Form == nil {
		return nil
	}
	vs, ok := r.Form[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return vs[0]
}

func respondError(w http.ResponseWriter, err error) {
	if fe, ok := web.AsFieldErrors(err); ok {
		web.WriteValidationError(w, fe)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "notícia não encontrada")
	case errors.Is(err, ErrSlugConflict):
		web.WriteError(w, http.StatusConflict, "já existe uma notícia com este título")
	case errors.Is(err, ErrBadState):
		web.WriteError(w, http.StatusConflict, "notícia arquivada não pode mudar de status")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
