package adoptions

import "time"

// Status é a máquina de estados do pedido:
// pending -> inReview -> approved | rejected. Os dois finais são terminais.
type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "inReview"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Active indica se o pedido ainda bloqueia novos pedidos do mesmo
// par (animal, e-mail do interessado).
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInReview
}

// Adoption é um pedido de adoção de um animal.
type Adoption struct {
	ID       string
	AnimalID string

	AdopterName  string
	AdopterEmail string
	AdopterPhone string

	// Questionário opcional sobre o lar do interessado.
	Profession   string
	HousingType  string
	HasYard      bool
	HasOtherPets bool
	OtherPets    string
	HasChildren  bool

	Motivation string

	Status     Status
	ReviewedBy string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
