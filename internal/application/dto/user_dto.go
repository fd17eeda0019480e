package dto

import (
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// LoginRequest cuerpo de POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token más datos públicos del usuario.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateUserRequest cuerpo de POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ChangePasswordRequest cuerpo de PUT /api/users/:id/password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse usuario sin hash de contraseña.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse mapea la entidad.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}
