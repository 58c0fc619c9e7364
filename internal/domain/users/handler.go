package users

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

// RegisterRoutes monta /auth (conta própria) e /users (painel admin).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Get("/me", meHandler(svc))
		ar.Put("/profile", profileHandler(svc))
		ar.Put("/change-password", changePasswordHandler(svc))
	})

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", adminListHandler(svc))
		ur.Post("/", adminCreateHandler(svc))
		ur.Get("/{userID}", adminGetHandler(svc))
		ur.Put("/{userID}", adminUpdateHandler(svc))
		ur.Delete("/{userID}", adminDeleteHandler(svc))
	})
}

// userResponse nunca carrega o hash de senha.
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions,omitempty"`

	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      string(u.Status),
		Permissions: u.Permissions,
		CreatedBy:   u.CreatedBy,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "cadastro realizado com sucesso", "user", toResponse(u))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, signed, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{
			"message": "login realizado com sucesso",
			"token":   signed,
			"user":    toResponse(u),
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(u))
	}
}

type profileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		var req profileRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.UpdateProfile(r.Context(), claims.UserID, ProfileInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "perfil atualizado com sucesso", "user", toResponse(u))
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func changePasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAuth(w, r)
		if !ok {
			return
		}

		var req changePasswordRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "senha alterada com sucesso", "", nil)
	}
}

func adminListHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		q := r.URL.Query()
		page, limit := web.PageParams(r)
		f := ListFilter{
			Role:   q.Get("role"),
			Status: Status(q.Get("status")),
			Search: q.Get("search"),
		}

		items, total, err := svc.List(r.Context(), f, page, limit)
		if err != nil {
			web.WriteError(w, http.StatusInternalServerError, "erro ao listar usuários")
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toResponse(u))
		}
		web.WriteList(w, out, page, limit, total)
	}
}

type adminCreateRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
}

func adminCreateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		var req adminCreateRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.AdminCreate(r.Context(), claims.UserID, AdminCreateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusCreated, "usuário criado com sucesso", "user", toResponse(u))
	}
}

func adminGetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(u))
	}
}

type adminUpdateRequest struct {
	Name        *string  `json:"name"`
	Phone       *string  `json:"phone"`
	Role        *string  `json:"role"`
	Status      *string  `json:"status"`
	Permissions []string `json:"permissions"`
}

func adminUpdateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var req adminUpdateRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.AdminUpdate(r.Context(), chi.URLParam(r, "userID"), AdminUpdateInput(req))
		if err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "usuário atualizado com sucesso", "user", toResponse(u))
	}
}

func adminDeleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "userID"), claims.UserID); err != nil {
			respondError(w, err)
			return
		}
		web.WriteMessage(w, http.StatusOK, "usuário excluído com sucesso", "", nil)
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

func requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := requireAuth(w, r)
	if !ok {
		return auth.Claims{}, false
	}
	if !claims.IsAdmin() {
		web.WriteError(w, http.StatusForbidden, "apenas administradores")
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
		web.WriteError(w, http.StatusNotFound, "usuário não encontrado")
	case errors.Is(err, ErrEmailTaken):
		web.WriteError(w, http.StatusConflict, "e-mail já cadastrado")
	case errors.Is(err, ErrInvalidCredentials):
		web.WriteError(w, http.StatusUnauthorized, "credenciais inválidas")
	case errors.Is(err, ErrAccountDisabled):
		web.WriteError(w, http.StatusForbidden, "conta desativada")
	case errors.Is(err, ErrCannotDeleteSelf):
		web.WriteError(w, http.StatusConflict, "não é possível excluir a própria conta")
	case errors.Is(err, ErrInvalidInput):
		web.WriteError(w, http.StatusBadRequest, "entrada inválida")
	default:
		web.WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}
