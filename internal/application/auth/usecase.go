package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
	"github.com/jhoicas/pos-central-api/pkg/config"
	"github.com/jhoicas/pos-central-api/pkg/jwt"
)

// UseCase casos de uso de autenticación y administración de usuarios.
type UseCase struct {
	users  repository.UserRepository
	jwtCfg config.JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(users repository.UserRepository, jwtCfg config.JWTConfig) *UseCase {
	return &UseCase{users: users, jwtCfg: jwtCfg}
}

// tokenPair genera el par access + refresh para un usuario.
func (uc *UseCase) tokenPair(user *entity.User) (access, refresh string, err error) {
	access, err = jwt.GenerateAccess(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.AccessExpHours)
	if err != nil {
		return "", "", err
	}
	refresh, err = jwt.GenerateRefresh(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpDays)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Login verifica username/password y genera el par de tokens. Usuario
// desconocido y contraseña incorrecta devuelven exactamente el mismo error,
// para no revelar qué usuarios existen.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := uc.users.Update(user); err != nil {
		return nil, err
	}

	access, refresh, err := uc.tokenPair(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		User:         dto.ToUserResponse(user),
		Token:        access,
		RefreshToken: refresh,
	}, nil
}

// Refresh valida el refresh token, verifica que el usuario siga activo y rota
// ambos tokens.
func (uc *UseCase) Refresh(in dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := jwt.ParseRefresh(uc.jwtCfg.Secret, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	access, refresh, err := uc.tokenPair(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		User:         dto.ToUserResponse(user),
		Token:        access,
		RefreshToken: refresh,
	}, nil
}

// Register crea un usuario: hashea password con bcrypt y persiste. Devuelve
// ErrUsernameExists/ErrEmailExists si ya hay un usuario activo con esos datos.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if existing, err := uc.users.GetByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameExists
	}
	if existing, err := uc.users.GetByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// GetProfile devuelve el usuario autenticado.
func (uc *UseCase) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile edita los datos del propio usuario. Un email ya tomado por
// otro usuario activo produce ErrEmailExists.
func (uc *UseCase) UpdateProfile(userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if in.Email != nil && *in.Email != user.Email {
		if other, err := uc.users.GetByEmail(*in.Email); err != nil {
			return nil, err
		} else if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailExists
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	user.UpdatedAt = time.Now()

	if err := uc.users.Update(user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ChangePassword cambia la contraseña del propio usuario previa verificación
// de la actual.
func (uc *UseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.users.Update(user)
}

// ListUsers lista usuarios con paginación y filtros de rol y búsqueda.
// La página se corta ANTES de aplicar los filtros de rol/búsqueda: una página
// puede venir corta aunque existan más coincidencias en otras páginas. Los
// clientes existentes dependen de ese comportamiento.
func (uc *UseCase) ListUsers(in dto.ListUsersRequest) (*dto.UserListResponse, error) {
	in.Normalize()

	total, err := uc.users.Count()
	if err != nil {
		return nil, err
	}
	page, err := uc.users.List(in.Limit, (in.Page-1)*in.Limit)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(in.Search)
	out := make([]dto.UserResponse, 0, len(page))
	for _, u := range page {
		if in.Role != "" && u.Role != in.Role {
			continue
		}
		if search != "" && !matchesSearch(u, search) {
			continue
		}
		out = append(out, dto.ToUserResponse(u))
	}

	return &dto.UserListResponse{
		Users:      out,
		Pagination: dto.NewPagination(in.Page, in.Limit, total),
	}, nil
}

// matchesSearch busca el término (ya en minúsculas) en username, email y nombre.
func matchesSearch(u *entity.User, term string) bool {
	return strings.Contains(strings.ToLower(u.Username), term) ||
		strings.Contains(strings.ToLower(u.Email), term) ||
		strings.Contains(strings.ToLower(u.FirstName), term) ||
		strings.Contains(strings.ToLower(u.LastName), term)
}

// GetUser devuelve un usuario por ID (administración).
func (uc *UseCase) GetUser(id string) (*dto.UserResponse, error) {
	return uc.GetProfile(id)
}

// UpdateUser edita cualquier usuario (administración).
func (uc *UseCase) UpdateUser(id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if in.Email != nil && *in.Email != user.Email {
		if other, err := uc.users.GetByEmail(*in.Email); err != nil {
			return nil, err
		} else if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailExists
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := uc.users.Update(user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// DeleteUser da de baja lógica a un usuario. Un administrador no puede
// eliminarse a sí mismo.
func (uc *UseCase) DeleteUser(id, requesterID string) error {
	if id == requesterID {
		return domain.ErrSelfDelete
	}
	return uc.users.Deactivate(id)
}
