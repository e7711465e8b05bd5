package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User representa una cuenta del sistema. Se crea en el registro con RoleUser;
// el rol Admin solo se asigna fuera de la API (cmd/seed_admin).
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // User, Admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
