package donations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
	"abrigo-animais/internal/ports/auth"
)

// RegisterRoutes monta as rotas de doações em /donations.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/donations", func(dr chi.Router) {
		dr.Post("/", createHandler(svc))
		dr.Get("/", listHandler(svc))
		dr.Get("/stats", statsHandler(svc))
		dr.Get("/{donationID}", getHandler(svc))
		dr.Patch("/{donationID}/status", updateStatusHandler(svc))
		dr.Delete("/{donationID}", deleteHandler(svc))
	})
}

type donationResponse struct {
	ID         string `json:"id"`
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
	DonorPhone string `json:"donorPhone,omitempty"`

	Type        string   `json:"type"`
	Amount      *float64 `json:"amount,omitempty"`
	Description string   `json:"description,omitempty"`

	Status string `json:"status"`

	Recurring          bool   `json:"recurring"`
	RecurrenceInterval string `json:"recurrenceInterval,omitempty"`

	RegistrarID string    `json:"registrarId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(d Donation) donationResponse {
	return donationResponse{
		ID:                 d.ID,
		DonorName:          d.DonorName,
		DonorEmail:         d.DonorEmail,
		DonorPhone:         d.DonorPhone,
		Type:               string(d.Type),
		Amount:             d.Amount,
		Description:        d.Description,
		Status:             string(d.Status),
		Recurring:          d.Recurring,
		RecurrenceInterval: d.RecurrenceInterval,
		RegistrarID:        d.RegistrarID,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type createRequest struct {
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
	DonorPhone string `json:"donorPhone"`

	Type        string   `json:"type"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`

	Recurring          bool   `json:"recurring"`
	RecurrenceInterval string `json:"recurrenceInterval"`
}

// createHandler é público; quando autenticado, registra quem cadastrou.
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		var registrarID string
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			registrarID = claims.UserID
		}

		d, err := svc.Create(r.Context(), registrarID, CreateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "doação registrada, obrigado!", "donation", toResponse(d))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		q := r.URL.Query()
		page, limit := web.PageParams(r)
		f := ListFilter{
			Type:   Type(q.Get("type")),
			Status: Status(q.Get("status")),
		}

		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar doações")
			return
		}

		out := make([]donationResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toResponse(d))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao agregar doações")
			return
		}
		web.WriteJSON(w, http.StatusOK, stats)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "donationID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(d))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		var req updateStatusRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		d, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "donationID"), Status(req.Status))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "status da doação atualizado", "donation", toResponse(d))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem excluir doações")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "donationID")); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "doação excluída com sucesso", "", nil)
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

func respondError(w http.ResponseWriter, err error) {
	if fe, ok := web.AsFieldErrors(err); ok {
		web.WriteValidationError(w, fe)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "doação não encontrada")
	case errors.Is(err, ErrBadState):
		web.WriteError(w, http.StatusConflict, "transição de status não permitida")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
