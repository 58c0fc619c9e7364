package shelterevents

import "time"

// Type do evento.
type Type string

const (
	TypeAdoptionFair Type = "adoptionFair"
	TypeFundraising  Type = "fundraising"
	TypeVolunteering Type = "volunteering"
	TypeEducational  Type = "educational"
	TypeOther        Type = "other"
)

func ValidType(t Type) bool {
	switch t {
	case TypeAdoptionFair, TypeFundraising, TypeVolunteering, TypeEducational, TypeOther:
		return true
	}
	return false
}

// Status do evento: planned -> confirmed -> inProgress -> completed, com
// cancelled alcançável enquanto não terminou.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Participant é uma inscrição no evento.
type Participant struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Event é um evento do abrigo (feira de adoção, arrecadação...).
type Event struct {
	ID          string
	Title       string
	Description string
	Type        Type

	StartsAt time.Time
	EndsAt   *time.Time

	Location  string
	Latitude  *float64
	Longitude *float64

	// MaxParticipants nulo = sem limite de vagas.
	MaxParticipants *int
	Participants    []Participant

	Status Status
	Public bool

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Full indica se as vagas acabaram.
func (e Event) Full() bool {
	return e.MaxParticipants != nil && len(e.Participants) >= *e.MaxParticipants
}
