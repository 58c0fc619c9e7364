package shelterevents

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
	"abrigo-animais/internal/ports/auth"
)

// RegisterRoutes monta as rotas de eventos em /events.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/events", func(er chi.Router) {
		er.Get("/", listHandler(svc))
		er.Post("/", createHandler(svc))
		er.Get("/{eventID}", getHandler(svc))
		er.Put("/{eventID}", updateHandler(svc))
		er.Delete("/{eventID}", deleteHandler(svc))

		er.Patch("/{eventID}/status", updateStatusHandler(svc))
		er.Post("/{eventID}/participate", participateHandler(svc))
		er.Post("/{eventID}/reminder", reminderHandler(svc))
	})
}

type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`

	StartsAt time.Time  `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`

	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	MaxParticipants     *int `json:"maxParticipants,omitempty"`
	CurrentParticipants int  `json:"currentParticipants"`

	Status string `json:"status"`
	Public bool   `json:"public"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(e Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Type:        string(e.Type),

		StartsAt: e.StartsAt,
		EndsAt:   e.EndsAt,

		Location:  e.Location,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,

		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: len(e.Participants),

		Status: string(e.Status),
		Public: e.Public,

		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// listHandler é a agenda: pública por padrão; autenticado vê tudo com
// all=true.
//
//	GET /events?type=&status=&upcoming=true&all=true&page=&limit=
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, limit := web.PageParams(r)
		upcoming := q.Get("upcoming") == "true"

		claims, authed := middleware.GetClaims(r.Context())
		if q.Get("all") == "true" && authed && claims.UserID != "" {
			items, total, err := svc.List(r.Context(), ListFilter{
				Type:   Type(q.Get("type")),
				Status: Status(q.Get("status")),
			}, page, limit)
			writeEventList(w, items, total, page, limit, err)
			return
		}

		items, total, err := svc.ListPublic(r.Context(), Type(q.Get("type")), upcoming, page, limit)
		writeEventList(w, items, total, page, limit, err)
	}
}

func writeEventList(w http.ResponseWriter, items []Event, total int64, page, limit int, err error) {
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "erro ao listar eventos")
		return
	}
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toResponse(e))
	}
	web.WriteList(w, out, page, limit, total)
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			respondError(w, err)
			return
		}

		// evento privado só aparece para usuário autenticado
		if !e.Public {
			if _, ok := requireAuth(w, r); !ok {
				return
			}
		}
		web.WriteJSON(w, http.StatusOK, toResponse(e))
	}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`

	StartsAt time.Time  `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`

	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	MaxParticipants *int `json:"maxParticipants"`
	Public          bool `json:"public"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		var req createRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		e, err := svc.Create(r.Context(), claims.UserID, CreateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "evento criado com sucesso", "event", toResponse(e))
	}
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`

	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`

	Location  *string  `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	MaxParticipants *int  `json:"maxParticipants"`
	Public          *bool `json:"public"`
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if _, ok := authorizeEvent(w, r, svc, claims); !ok {
			return
		}

		var req updateRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), UpdateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "evento atualizado com sucesso", "event", toResponse(e))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if _, ok := authorizeEvent(w, r, svc, claims); !ok {
			return
		}

		var req updateStatusRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		e, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "eventID"), Status(req.Status))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "status do evento atualizado", "event", toResponse(e))
	}
}

type participateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// participateHandler é público: inscrição no evento.
func participateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req participateRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		e, err := svc.Participate(r.Context(), chi.URLParam(r, "eventID"), req.Name, req.Email)
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "inscrição confirmada", "event", toResponse(e))
	}
}

func reminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if _, ok := authorizeEvent(w, r, svc, claims); !ok {
			return
		}

		n, err := svc.SendReminder(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, fmt.Sprintf("lembrete enviado para %d inscrito(s)", n), "", nil)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores podem excluir eventos")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "evento excluído com sucesso", "", nil)
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

// authorizeEvent carrega o evento e autoriza criador ou admin.
func authorizeEvent(w http.ResponseWriter, r *http.Request, svc *Service, claims auth.Claims) (Event, bool) {
	e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "evento não encontrado")
		return Event{}, false
	}
	if e.CreatedBy != claims.UserID && !claims.IsAdmin() {
		web.WriteError(w, http.StatusForbidden, "sem permissão sobre este evento")
		return Event{}, false
	}
	return e, true
}

func respondError(w http.ResponseWriter, err error) {
	if fe, ok := web.AsFieldErrors(err); ok {
		web.WriteValidationError(w, fe)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "evento não encontrado")
	case errors.Is(err, ErrEventFull):
		web.WriteError(w, http.StatusConflict, "evento lotado")
	case errors.Is(err, ErrAlreadyRegistered):
		web.WriteError(w, http.StatusConflict, "este e-mail já está inscrito")
	case errors.Is(err, ErrBadState):
		web.WriteError(w, http.StatusConflict, "transição de status não permitida")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
