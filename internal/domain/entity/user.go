package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier || role == RoleManager
}

// User representa un usuario del punto de venta. La baja es lógica:
// IsActive=false lo oculta de todas las búsquedas, nunca se elimina físicamente.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca se expone en respuestas
	FirstName    string
	LastName     string
	Role         string // admin, cashier, manager
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
