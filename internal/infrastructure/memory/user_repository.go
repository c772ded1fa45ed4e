// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria protegidas por mutex. Es el backend por defecto: los datos viven lo
// que vive el proceso. El mutex hace explícita la garantía de un solo escritor
// a la vez que el modelo de un request por goroutine necesita.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria del puerto UserRepository.
type UserRepo struct {
	mu    sync.RWMutex
	users []*entity.User
}

// NewUserRepository construye el repositorio y siembra los usuarios demo
// admin/admin123 y cashier/cashier123, igual que el entorno de desarrollo.
func NewUserRepository() *UserRepo {
	r := &UserRepo{}
	now := time.Now()
	for _, seed := range []struct {
		username, email, password, first, last, role string
	}{
		{"admin", "admin@pos.com", "admin123", "Admin", "User", entity.RoleAdmin},
		{"cashier", "cashier@pos.com", "cashier123", "Cashier", "User", entity.RoleCashier},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		r.users = append(r.users, &entity.User{
			ID:           uuid.New().String(),
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: string(hash),
			FirstName:    seed.first,
			LastName:     seed.last,
			Role:         seed.role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return r
}

// Create agrega un usuario. La unicidad de username/email entre activos se
// verifica aquí además de en el caso de uso, para mantener el invariante
// aunque cambie el caller.
func (r *UserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrUsernameExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	r.users = append(r.users, user)
	return nil
}

// GetByID busca por id entre los usuarios activos. Retorna nil, nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findActive(func(u *entity.User) bool { return u.ID == id }), nil
}

// GetByUsername busca por username entre los usuarios activos.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findActive(func(u *entity.User) bool { return u.Username == username }), nil
}

// GetByEmail busca por email (sin distinguir mayúsculas) entre los activos.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findActive(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

// Update reemplaza el registro con el mismo ID.
func (r *UserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return domain.ErrNotFound
}

// Deactivate baja lógica: el registro queda almacenado pero invisible.
func (r *UserRepo) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && u.IsActive {
			u.IsActive = false
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

// List pagina sobre los usuarios activos en orden de inserción.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	if offset >= len(active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

// Count cuenta los usuarios activos.
func (r *UserRepo) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) findActive(match func(*entity.User) bool) *entity.User {
	for _, u := range r.users {
		if u.IsActive && match(u) {
			return u
		}
	}
	return nil
}
