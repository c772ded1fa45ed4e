package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/pkg/jwt"
)

// LocalUser key del usuario autenticado en c.Locals.
const LocalUser = "user"

// userResolver lo que el middleware necesita del repositorio de usuarios.
type userResolver interface {
	GetByID(id string) (*entity.User, error)
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Success: false, Error: code, Message: message,
	})
}

// bearerToken extrae el token del header Authorization. Devuelve "" si el
// header falta o no tiene el formato Bearer <token>.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware valida el Bearer Token JWT, resuelve el usuario y lo deja en
// c.Locals. Un token de un usuario dado de baja se rechaza aunque el token en
// sí siga siendo válido.
func AuthMiddleware(jwtSecret string, users userResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido (Bearer <token>)")
		}

		claims, err := jwt.ParseAccess(jwtSecret, token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return unauthorized(c, "TOKEN_EXPIRED", "el token expiró")
			}
			return unauthorized(c, "INVALID_TOKEN", "token inválido")
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false, Error: "INTERNAL", Message: "no se pudo resolver el usuario",
			})
		}
		if user == nil {
			return unauthorized(c, "USER_INACTIVE", "la cuenta no existe o está inactiva")
		}

		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// OptionalAuth resuelve el usuario si viene un token válido, pero deja pasar
// el request sin usuario cuando no lo hay.
func OptionalAuth(jwtSecret string, users userResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		claims, err := jwt.ParseAccess(jwtSecret, token)
		if err != nil {
			return c.Next()
		}
		if user, err := users.GetByID(claims.UserID); err == nil && user != nil {
			c.Locals(LocalUser, user)
		}
		return c.Next()
	}
}

// RequireRole exige que el usuario autenticado tenga alguno de los roles dados.
// Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return unauthorized(c, "MISSING_TOKEN", "autenticación requerida")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Success: false, Error: "FORBIDDEN", Message: "no tienes permiso para esta operación",
		})
	}
}

// GetUser devuelve el usuario autenticado del contexto, o nil si no hay.
func GetUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
