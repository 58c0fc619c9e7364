package contacts

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

// RegisterRoutes monta as rotas de mensagens de contato em /contacts.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/contacts", func(cr chi.Router) {
		cr.Post("/", createHandler(svc))
		cr.Get("/", listHandler(svc))
		cr.Get("/{contactID}", getHandler(svc))
		cr.Post("/{contactID}/respond", respondHandler(svc))
		cr.Patch("/{contactID}/status", updateStatusHandler(svc))
		cr.Delete("/{contactID}", deleteHandler(svc))
	})
}

type contactResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`

	ResponderID string     `json:"responderId,omitempty"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(c Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Subject:     c.Subject,
		Message:     c.Message,
		Status:      string(c.Status),
		Priority:    string(c.Priority),
		Category:    c.Category,
		ResponderID: c.ResponderID,
		Response:    c.Response,
		RespondedAt: c.RespondedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// createHandler é público: formulário "fale conosco".
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		c, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "mensagem recebida, responderemos em breve", "contact", toResponse(c))
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
			Status:   Status(q.Get("status")),
			Category: q.Get("category"),
			Priority: Priority(q.Get("priority")),
		}

		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar mensagens")
			return
		}

		out := make([]contactResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}

		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "contactID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

type respondRequest struct {
	Response string `json:"response"`
}

func respondHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		var req respondRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		c, err := svc.Respond(r.Context(), chi.URLParam(r, "contactID"), claims.UserID, req.Response)
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "resposta registrada e enviada", "contact", toResponse(c))
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

		c, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "contactID"), Status(req.Status))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "status da mensagem atualizado", "contact", toResponse(c))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem excluir mensagens")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "contactID")); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "mensagem excluída com sucesso", "", nil)
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
		web.WriteError(w, http.StatusNotFound, "mensagem não encontrada")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
