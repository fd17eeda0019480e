package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Credenciales del administrador inicial cuando no hay usuarios.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, log: log.Component("users")}
}

// List usuarios sin hash.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

// Create valida rol y hashea la contraseña. Username repetido => ErrConflict.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("usuario y contraseña son obligatorios: %w", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleSaler
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("rol %q inválido: %w", role, domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", username).Str("role", role).Msg("usuario creado")
	res := dto.NewUserResponse(user)
	return &res, nil
}

// ChangePassword reemplaza el hash. ErrNotFound si el usuario no existe.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id string, in dto.ChangePasswordRequest) error {
	if in.Password == "" {
		return fmt.Errorf("contraseña obligatoria: %w", domain.ErrInvalidInput)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("usuario %s: %w", id, domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(ctx, id, string(hash))
}

// EnsureDefaultAdmin crea admin/admin123 si la tabla está vacía. Devuelve true si lo creó.
func (uc *UserUseCase) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := uc.Create(ctx, dto.CreateUserRequest{
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
		Role:     entity.RoleAdmin,
	}); err != nil {
		return false, err
	}
	uc.log.Warn().Msg("usuario admin por defecto creado; cambie la contraseña")
	return true, nil
}
