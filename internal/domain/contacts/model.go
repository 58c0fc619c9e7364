package contacts

import "time"

// Status do atendimento: new -> read -> responded -> archived.
type Status string

const (
	StatusNew       Status = "new"
	StatusRead      Status = "read"
	StatusResponded Status = "responded"
	StatusArchived  Status = "archived"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusRead, StatusResponded, StatusArchived:
		return true
	}
	return false
}

// Priority da mensagem na fila de atendimento.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Contact é uma mensagem recebida pelo formulário público.
type Contact struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string

	Status   Status
	Priority Priority
	Category string

	// Preenchidos por Respond.
	ResponderID string
	Response    string
	RespondedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
