package validation

import "strings"

// FieldError descreve uma violação em um campo específico.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors acumula violações para devolver todas de uma vez ao cliente,
// em vez de parar na primeira.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *FieldErrors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err devolve nil quando não houve violações.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
