package repository

import "github.com/jhoicas/pos-central-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Todas las búsquedas ven únicamente usuarios activos; un usuario dado de baja
// (IsActive=false) es invisible aunque siga almacenado.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// Deactivate marca el usuario como inactivo (baja lógica).
	// Retorna domain.ErrNotFound si no existe o ya estaba inactivo.
	Deactivate(id string) error
	List(limit, offset int) ([]*entity.User, error)
	Count() (int, error)
}
