package notify

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/platform/web"
)

// RegisterRoutes monta a rota administrativa de diagnóstico de e-mail.
func RegisterRoutes(r chi.Router, d *Dispatcher) {
	r.Post("/admin/email-test", emailTestHandler(d))
}

type emailTestRequest struct {
	To string `json:"to"`
}

func emailTestHandler(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			web.WriteError(w, http.StatusUnauthorized, "autenticação necessária")
			return
		}
		if !claims.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "apenas administradores")
			return
		}

		var req emailTestRequest
		if err := web.DecodeJSON(r, &req); err != nil || strings.TrimSpace(req.To) == "" {
			web.WriteError(w, http.StatusBadRequest, "informe o destinatário em {\"to\": ...}")
			return
		}

		if err := d.SendTest(r.Context(), strings.TrimSpace(req.To)); err != nil {
			web.WriteError(w, http.StatusInternalServerError, "falha no envio de teste: "+err.Error())
			return
		}
		web.WriteMessage(w, http.StatusOK, "e-mail de teste enviado", "", nil)
	}
}
