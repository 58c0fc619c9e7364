package adoptions

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/domain/animals"
	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
	"abrigo-animais/internal/ports/auth"
)

// RegisterRoutes monta as rotas de pedidos de adoção em /adoptions.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/adoptions", func(r chi.Router) {
		r.Post("/", createHandler(svc))
		r.Get("/", listHandler(svc))
		r.Get("/{adoptionID}", getHandler(svc))
		r.Patch("/{adoptionID}/status", updateStatusHandler(svc))
		r.Delete("/{adoptionID}", deleteHandler(svc))
	})
}

type adoptionResponse struct {
	ID       string `json:"id"`
	AnimalID string `json:"animalId"`

	AdopterName  string `json:"adopterName"`
	AdopterEmail string `json:"adopterEmail"`
	AdopterPhone string `json:"adopterPhone"`

	Profession   string `json:"profession,omitempty"`
	HousingType  string `json:"housingType,omitempty"`
	HasYard      bool   `json:"hasYard"`
	HasOtherPets bool   `json:"hasOtherPets"`
	OtherPets    string `json:"otherPets,omitempty"`
	HasChildren  bool   `json:"hasChildren"`

	Motivation string `json:"motivation"`

	Status     string     `json:"status"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(a Adoption) adoptionResponse {
	return adoptionResponse{
		ID:           a.ID,
		AnimalID:     a.AnimalID,
		AdopterName:  a.AdopterName,
		AdopterEmail: a.AdopterEmail,
		AdopterPhone: a.AdopterPhone,
		Profession:   a.Profession,
		HousingType:  a.HousingType,
		HasYard:      a.HasYard,
		HasOtherPets: a.HasOtherPets,
		OtherPets:    a.OtherPets,
		HasChildren:  a.HasChildren,
		Motivation:   a.Motivation,
		Status:       string(a.Status),
		ReviewedBy:   a.ReviewedBy,
		ReviewedAt:   a.ReviewedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type createRequest struct {
	AnimalID     string `json:"animalId"`
	AdopterName  string `json:"adopterName"`
	AdopterEmail string `json:"adopterEmail"`
	AdopterPhone string `json:"adopterPhone"`

	Profession   string `json:"profession"`
	HousingType  string `json:"housingType"`
	HasYard      bool   `json:"hasYard"`
	HasOtherPets bool   `json:"hasOtherPets"`
	OtherPets    string `json:"otherPets"`
	HasChildren  bool   `json:"hasChildren"`

	Motivation string `json:"motivation"`
}

// createHandler godoc
// @Summary Cria um pedido de adoção
// @Tags adoptions
// @Accept json
// @Produce json
// @Success 201 {object} adoptionResponse
// @Router /adoptions [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "corpo JSON inválido")
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			AnimalID:     req.AnimalID,
			AdopterName:  req.AdopterName,
			AdopterEmail: req.AdopterEmail,
			AdopterPhone: req.AdopterPhone,
			Profession:   req.Profession,
			HousingType:  req.HousingType,
			HasYard:      req.HasYard,
			HasOtherPets: req.HasOtherPets,
			OtherPets:    req.OtherPets,
			HasChildren:  req.HasChildren,
			Motivation:   req.Motivation,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "pedido de adoção registrado", "adoption", toResponse(a))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		page, limit := web.PageParams(r)
		f := ListFilter{
			Status:   Status(r.URL.Query().Get("status")),
			AnimalID: r.URL.Query().Get("animalId"),
		}

		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			respondError(w, err)
			return
		}

		out := make([]adoptionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "adoptionID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(a))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		var req updateStatusRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "corpo JSON inválido")
			return
		}

		a, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "adoptionID"), Status(req.Status), claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "status do pedido atualizado", "adoption", toResponse(a))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem remover pedidos")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "adoptionID")); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "pedido de adoção removido", "", nil)
	}
}

func requireStaff(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || claims.UserID == "" {
		web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
		return auth.Claims{}, false
	}
	return claims, true
}

func respondError(w http.ResponseWriter, err error) {
	if errs, ok := web.AsFieldErrors(err); ok {
		web.WriteValidationError(w, errs)
		return
	}
	switch {
	case errors.Is(err, ErrDuplicate):
		// Pedido repetido volta 400, contrato histórico do front.
		web.WriteError(w, http.StatusBadRequest, "já existe um pedido ativo para este animal com este e-mail")
	case errors.Is(err, ErrAnimalUnavailable):
		web.WriteError(w, http.StatusConflict, "animal não está disponível para adoção")
	case errors.Is(err, ErrBadState), errors.Is(err, animals.ErrBadState):
		web.WriteError(w, http.StatusConflict, "transição de status inválida")
	case errors.Is(err, ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "pedido de adoção não encontrado")
	case errors.Is(err, animals.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "animal não encontrado")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "requisição inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
