package auth

// Claims representa a identidade extraída do token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Papéis reconhecidos pela API.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleVolunteer = "volunteer"
	RoleUser      = "user"
)

// IsAdmin indica se os claims pertencem a um administrador.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsStaff indica admin ou moderador.
func (c Claims) IsStaff() bool {
	return c.Role == RoleAdmin || c.Role == RoleModerator
}
