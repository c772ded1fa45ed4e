package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/auth"
	"github.com/jhoicas/pos-central-api/internal/application/dto"
)

// UserHandler administración de usuarios (solo admin).
type UserHandler struct {
	uc *auth.UseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *auth.UseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "página (desde 1)"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        role    query  string  false  "filtrar por rol"
// @Param        search  query  string  false  "buscar en username, email y nombre"
// @Success      200  {object}  dto.Response{data=dto.UserListResponse}
// @Router       /api/v1/auth/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.ListUsersRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	out, err := h.uc.ListUsers(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Get godoc
// @Summary      Obtener un usuario por ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Response{data=dto.UserResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.uc.GetUser(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(user))
}

// Update godoc
// @Summary      Editar un usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.UserResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	user, err := h.uc.UpdateUser(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OKMessage("usuario actualizado", user))
}

// Delete godoc
// @Summary      Dar de baja un usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Params("id"), GetUser(c).ID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "usuario dado de baja"})
}
