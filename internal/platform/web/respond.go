package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"abrigo-animais/internal/platform/validation"
)

// ErrorBody é o corpo padrão de erro da API: {message, errors?}.
type ErrorBody struct {
	Message string                 `json:"message"`
	Errors  validation.FieldErrors `json:"errors,omitempty"`
}

// Pagination acompanha toda resposta de listagem.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListBody envolve listagens: {items, pagination}.
type ListBody struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// WriteValidationError devolve 400 com a lista completa de campos inválidos.
func WriteValidationError(w http.ResponseWriter, errs validation.FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Message: "validation failed", Errors: errs})
}

// WriteList monta o envelope {items, pagination}.
func WriteList(w http.ResponseWriter, items any, page, limit int, total int64) {
	WriteJSON(w, http.StatusOK, ListBody{
		Items: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages(total, limit),
		},
	})
}

// WriteMessage monta o envelope de mutação {message, <entity>}.
// O nome da chave da entidade varia por recurso, então recebemos o par pronto.
func WriteMessage(w http.ResponseWriter, status int, message, entityKey string, entity any) {
	body := map[string]any{"message": message}
	if entityKey != "" {
		body[entityKey] = entity
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodifica o corpo JSON do request.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// AsFieldErrors extrai FieldErrors de um erro, se for o caso.
func AsFieldErrors(err error) (validation.FieldErrors, bool) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	p := int(total) / limit
	if int(total)%limit != 0 {
		p++
	}
	return p
}
