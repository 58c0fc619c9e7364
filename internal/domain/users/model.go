package users

import "time"

// Status da conta.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// User é uma conta da plataforma. O hash de senha nunca sai pela API.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string

	PasswordHash string

	Role        string
	Status      Status
	Permissions []string

	// CreatedBy aponta o admin que criou a conta; vazio no auto-cadastro.
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
