package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/pkg/jwt"
)

// fail arma una respuesta de error con el sobre estándar.
func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Error: code, Message: message})
}

// failValidation arma la respuesta 400 con la lista completa de errores de
// validación.
func failValidation(c *fiber.Ctx, details []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Success: false,
		Error:   "VALIDATION",
		Message: "datos de entrada inválidos",
		Details: details,
	})
}

// domainError traduce los errores de dominio y de tokens a su respuesta HTTP.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, jwt.ErrTokenExpired):
		return fail(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "el token expiró")
	case errors.Is(err, jwt.ErrTokenInvalid):
		return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrUsernameExists):
		return fail(c, fiber.StatusConflict, "USERNAME_EXISTS", err.Error())
	case errors.Is(err, domain.ErrEmailExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrSelfDelete):
		return fail(c, fiber.StatusBadRequest, "SELF_DELETE", err.Error())
	case errors.Is(err, domain.ErrWrongPassword):
		return fail(c, fiber.StatusBadRequest, "WRONG_PASSWORD", err.Error())
	case errors.Is(err, domain.ErrStatusRollback):
		return fail(c, fiber.StatusUnprocessableEntity, "STATUS_ROLLBACK", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
