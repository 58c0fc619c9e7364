package animals

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
	"abrigo-animais/internal/ports/auth"
)

const (
	maxUploadBytes  = 10 << 20 // corpo multipart inteiro
	maxPhotoBytes   = 5 << 20  // por arquivo
	photosFormField = "photos"
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedPhotoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc))
		ar.Post("/", createAnimalHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Put("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))

		ar.Patch("/{animalID}/adopt", adoptAnimalHandler(svc))
		ar.Post("/{animalID}/photos", addPhotosHandler(svc))
		ar.Delete("/{animalID}/photos/{index}", removePhotoHandler(svc))
	})
}

type animalResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Species     string  `json:"species"`
	Breed       string  `json:"breed"`
	Age         string  `json:"age"`
	Size        string  `json:"size"`
	Gender      string  `json:"gender"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Photos      []Photo `json:"photos"`
	Status      string  `json:"status"`
	Featured    bool    `json:"featured"`

	Vaccinated   bool `json:"vaccinated"`
	Neutered     bool `json:"neutered"`
	Dewormed     bool `json:"dewormed"`
	SpecialNeeds bool `json:"specialNeeds"`

	Friendly    bool `json:"friendly"`
	Playful     bool `json:"playful"`
	Calm        bool `json:"calm"`
	Protective  bool `json:"protective"`
	Social      bool `json:"social"`
	Independent bool `json:"independent"`
	Active      bool `json:"active"`
	Docile      bool `json:"docile"`

	AdopterName string     `json:"adopterName,omitempty"`
	AdoptedAt   *time.Time `json:"adoptedAt,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toAnimalResponse(a Animal) animalResponse {
	photos := a.Photos
	if photos == nil {
		photos = []Photo{}
	}
	return animalResponse{
		ID:          a.ID,
		Name:        a.Name,
		Species:     a.Species,
		Breed:       a.Breed,
		Age:         a.Age,
		Size:        a.Size,
		Gender:      a.Gender,
		Description: a.Description,
		City:        a.City,
		State:       a.State,
		Photos:      photos,
		Status:      string(a.Status),
		Featured:    a.Featured,

		Vaccinated:   a.Vaccinated,
		Neutered:     a.Neutered,
		Dewormed:     a.Dewormed,
		SpecialNeeds: a.SpecialNeeds,

		Friendly:    a.Friendly,
		Playful:     a.Playful,
		Calm:        a.Calm,
		Protective:  a.Protective,
		Social:      a.Social,
		Independent: a.Independent,
		Active:      a.Active,
		Docile:      a.Docile,

		AdopterName: a.AdopterName,
		AdoptedAt:   a.AdoptedAt,

		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// listAnimalsHandler é público: vitrine com filtros e paginação.
//
//	GET /animals?species=&size=&gender=&age=&city=&state=&status=&search=&page=&limit=
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := ListFilter{
			Species: q.Get("species"),
			Size:    q.Get("size"),
			Gender:  q.Get("gender"),
			Age:     q.Get("age"),
			City:    q.Get("city"),
			State:   q.Get("state"),
			Status:  q.Get("status"),
			Search:  q.Get("search"),
		}
		if v := q.Get("featured"); v != "" {
			b := CoerceBool(v)
			f.Featured = &b
		}

		page, limit := web.PageParams(r)
		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar animais")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			web.WriteError(w, http.StatusNotFound, "animal não encontrado")
			return
		}
		web.WriteJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// createAnimalHandler recebe multipart/form-data com campos de texto e até
// 5 fotos no campo "photos".
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			web.WriteError(w, http.StatusBadRequest, "multipart inválido ou acima do limite de 10MB")
			return
		}

		photos, badPhoto := formPhotos(r)
		if badPhoto != "" {
			web.WriteError(w, http.StatusBadRequest, badPhoto)
			return
		}
		defer closePhotoFiles(photos)

		in := CreateInput{
			Name:        r.FormValue("name"),
			Species:     r.FormValue("species"),
			Breed:       r.FormValue("breed"),
			Age:         r.FormValue("age"),
			Size:        r.FormValue("size"),
			Gender:      r.FormValue("gender"),
			Description: r.FormValue("description"),
			City:        r.FormValue("city"),
			State:       r.FormValue("state"),
			Status:      r.FormValue("status"),

			Featured:     formValueOrNil(r, "featured"),
			Vaccinated:   formValueOrNil(r, "vaccinated"),
			Neutered:     formValueOrNil(r, "neutered"),
			Dewormed:     formValueOrNil(r, "dewormed"),
			SpecialNeeds: formValueOrNil(r, "specialNeeds"),

			Friendly:    formValueOrNil(r, "friendly"),
			Playful:     formValueOrNil(r, "playful"),
			Calm:        formValueOrNil(r, "calm"),
			Protective:  formValueOrNil(r, "protective"),
			Social:      formValueOrNil(r, "social"),
			Independent: formValueOrNil(r, "independent"),
			Active:      formValueOrNil(r, "active"),
			Docile:      formValueOrNil(r, "docile"),
		}

		uploads := make([]PhotoUpload, 0, len(photos))
		for _, p := range photos {
			uploads = append(uploads, PhotoUpload{
				Filename:    p.header.Filename,
				ContentType: p.contentType,
				Reader:      p.file,
			})
		}

		a, err := svc.Create(r.Context(), claims.UserID, in, uploads)
		if err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "animal cadastrado com sucesso", "animal", toAnimalResponse(a))
	}
}

type updateAnimalRequest struct {
	Name        *string `json:"name"`
	Species     *string `json:"species"`
	Breed       *string `json:"breed"`
	Age         *string `json:"age"`
	Size        *string `json:"size"`
	Gender      *string `json:"gender"`
	Description *string `json:"description"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Status      *string `json:"status"`

	Featured     any `json:"featured"`
	Vaccinated   any `json:"vaccinated"`
	Neutered     any `json:"neutered"`
	Dewormed     any `json:"dewormed"`
	SpecialNeeds any `json:"specialNeeds"`

	Friendly    any `json:"friendly"`
	Playful     any `json:"playful"`
	Calm        any `json:"calm"`
	Protective  any `json:"protective"`
	Social      any `json:"social"`
	Independent any `json:"independent"`
	Active      any `json:"active"`
	Docile      any `json:"docile"`
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := requireOwnerOrAdmin(w, r, svc)
		if !ok {
			return
		}

		var req updateAnimalRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		updated, err := svc.Update(r.Context(), a.ID, UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Size:        req.Size,
			Gender:      req.Gender,
			Description: req.Description,
			City:        req.City,
			State:       req.State,
			Status:      req.Status,

			Featured:     req.Featured,
			Vaccinated:   req.Vaccinated,
			Neutered:     req.Neutered,
			Dewormed:     req.Dewormed,
			SpecialNeeds: req.SpecialNeeds,

			Friendly:    req.Friendly,
			Playful:     req.Playful,
			Calm:        req.Calm,
			Protective:  req.Protective,
			Social:      req.Social,
			Independent: req.Independent,
			Active:      req.Active,
			Docile:      req.Docile,
		})
		if err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "animal atualizado com sucesso", "animal", toAnimalResponse(updated))
	}
}

type adoptAnimalRequest struct {
	AdopterName    string `json:"adopterName"`
	AdopterContact string `json:"adopterContact"`
}

// adoptAnimalHandler marca o animal como adotado direto, sem passar por um
// pedido de adoção.
func adoptAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
			return
		}

		var req adoptAnimalRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		a, err := svc.MarkAdopted(r.Context(), chi.URLParam(r, "animalID"), req.AdopterName, req.AdopterContact)
		if err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "animal marcado como adotado", "animal", toAnimalResponse(a))
	}
}

func addPhotosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := requireOwnerOrAdmin(w, r, svc)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			web.WriteError(w, http.StatusBadRequest, "multipart inválido ou acima do limite de 10MB")
			return
		}

		photos, badPhoto := formPhotos(r)
		if badPhoto != "" {
			web.WriteError(w, http.StatusBadRequest, badPhoto)
			return
		}
		defer closePhotoFiles(photos)

		uploads := make([]PhotoUpload, 0, len(photos))
		for _, p := range photos {
			uploads = append(uploads, PhotoUpload{
				Filename:    p.header.Filename,
				ContentType: p.contentType,
				Reader:      p.file,
			})
		}

		updated, err := svc.AddPhotos(r.Context(), a.ID, uploads)
		if err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "fotos adicionadas com sucesso", "animal", toAnimalResponse(updated))
	}
}

func removePhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := requireOwnerOrAdmin(w, r, svc)
		if !ok {
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			web.WriteError(w, http.StatusBadRequest, "índice de foto inválido")
			return
		}

		updated, err := svc.RemovePhoto(r.Context(), a.ID, index)
		if err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "foto removida com sucesso", "animal", toAnimalResponse(updated))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	// Admin only
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem excluir animais")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			respondAnimalError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "animal excluído com sucesso", "", nil)
	}
}

// requireOwnerOrAdmin carrega o animal e autoriza: dono (criador) ou admin.
func requireOwnerOrAdmin(w http.ResponseWriter, r *http.Request, svc *Service) (auth.Claims, Animal, bool) {
	c, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(c.UserID) == "" {
		web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
		return auth.Claims{}, Animal{}, false
	}

	found, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "animal não encontrado")
		return auth.Claims{}, Animal{}, false
	}

	if found.CreatedBy != c.UserID && !c.IsAdmin() {
		web.WriteError(w, http.StatusForbidden, "sem permissão sobre este animal")
		return auth.Claims{}, Animal{}, false
	}
	return c, found, true
}

type formPhoto struct {
	file        multipart.File
	header      *multipart.FileHeader
	contentType string
}

// formPhotos valida tamanho e tipo ANTES de qualquer chamada ao bucket.
// Devolve mensagem de erro vazia quando está tudo ok.
func formPhotos(r *http.Request) ([]formPhoto, string) {
	if r.MultipartForm == nil {
		return nil, ""
	}
	headers := r.MultipartForm.File[photosFormField]
	if len(headers) == 0 {
		return nil, ""
	}
	if len(headers) > maxPhotosPerUpload {
		return nil, "máximo de 5 fotos por envio"
	}

	out := make([]formPhoto, 0, len(headers))
	for _, h := range headers {
		if h.Size > maxPhotoBytes {
			closePhotoFiles(out)
			return nil, "cada foto deve ter no máximo 5MB"
		}

		ct := h.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(h.Filename))
		if !allowedPhotoTypes[ct] || !allowedPhotoExts[ext] {
			closePhotoFiles(out)
			return nil, "formato de foto não suportado: use JPEG, PNG ou WebP"
		}

		f, err := h.Open()
		if err != nil {
			closePhotoFiles(out)
			return nil, "falha ao ler arquivo enviado"
		}
		out = append(out, formPhoto{file: f, header: h, contentType: ct})
	}
	return out, ""
}

func closePhotoFiles(photos []formPhoto) {
	for _, p := range photos {
		_ = p.file.Close()
	}
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

func respondAnimalError(w http.ResponseWriter, err error) {
	if fe, ok := web.AsFieldErrors(err); ok {
		web.WriteValidationError(w, fe)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "animal não encontrado")
	case errors.Is(err, ErrBadState):
		web.WriteError(w, http.StatusConflict, "transição de status não permitida")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
