package donations

import "time"

// Type é o que está sendo doado.
type Type string

const (
	TypeMoney    Type = "money"
	TypeFood     Type = "food"
	TypeMedicine Type = "medicine"
	TypeSupplies Type = "supplies"
	TypeOther    Type = "other"
)

func ValidType(t Type) bool {
	switch t {
	case TypeMoney, TypeFood, TypeMedicine, TypeSupplies, TypeOther:
		return true
	}
	return false
}

// Status da doação: pending -> confirmed -> received, cancelável enquanto
// não recebida.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Donation é uma doação registrada, em dinheiro ou em itens.
type Donation struct {
	ID string

	DonorName  string
	DonorEmail string
	DonorPhone string

	Type        Type
	Amount      *float64 // só para dinheiro; nunca negativo
	Description string

	Status Status

	Recurring          bool
	RecurrenceInterval string // monthly, quarterly...

	// RegistrarID identifica quem registrou a doação no balcão; vazio quando
	// veio do formulário público.
	RegistrarID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats agrega o painel de doações.
type Stats struct {
	Total       int64            `json:"total"`
	ByType      map[string]int64 `json:"byType"`
	ByStatus    map[string]int64 `json:"byStatus"`
	TotalAmount float64          `json:"totalAmount"` // soma de dinheiro confirmado + recebido
}
