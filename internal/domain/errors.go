package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUsernameExists = errors.New("el nombre de usuario ya está registrado")
	ErrEmailExists    = errors.New("el email ya está registrado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrSelfDelete     = errors.New("no puedes eliminar tu propia cuenta")
	ErrWrongPassword  = errors.New("contraseña actual incorrecta")
	ErrStatusRollback = errors.New("una orden en procesamiento no puede volver a pendiente")
)
