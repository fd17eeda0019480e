package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleSaler = "saler"
)

// ValidRole indica si el rol es admin o saler.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSaler
}

// User usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt, nunca en texto plano
	Role         string
	CreatedAt    time.Time
}
