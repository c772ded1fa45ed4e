package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/auth"
	"github.com/jhoicas/pos-central-api/internal/application/dto"
)

// AuthHandler maneja login, refresh y las operaciones del propio usuario.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.Response{data=dto.LoginResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OKMessage("sesión iniciada", out))
}

// Refresh godoc
// @Summary      Renovar tokens con un refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refreshToken"
// @Success      200   {object}  dto.Response{data=dto.LoginResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	out, err := h.uc.Refresh(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Register godoc
// @Summary      Registrar un usuario (solo admin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterRequest  true  "datos del usuario"
// @Success      201   {object}  dto.Response{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	user, err := h.uc.Register(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKMessage("usuario creado", user))
}

// Profile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response{data=dto.UserResponse}
// @Router       /api/v1/auth/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.uc.GetProfile(GetUser(c).ID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(user))
}

// UpdateProfile godoc
// @Summary      Editar el perfil propio
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateProfileRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.UserResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	user, err := h.uc.UpdateProfile(GetUser(c).ID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OKMessage("perfil actualizado", user))
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "contraseña actual y nueva"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	if err := h.uc.ChangePassword(GetUser(c).ID, in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "contraseña actualizada"})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// Los tokens son stateless: el cierre de sesión real es que el cliente
	// descarte los suyos. El endpoint existe para confirmar la operación.
	return c.JSON(dto.Response{Success: true, Message: "sesión cerrada; descarta los tokens en el cliente"})
}
