package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/application/sales"
)

// SalesOrderHandler maneja el ciclo de vida de las órdenes de venta.
type SalesOrderHandler struct {
	uc *sales.UseCase
}

// NewSalesOrderHandler construye el handler de órdenes.
func NewSalesOrderHandler(uc *sales.UseCase) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una orden de venta
// @Description  Persiste la orden localmente y la espeja en Business Central. El fallo del espejo no hace fallar la creación: queda reportado en bcIntegration.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSalesOrderRequest  true  "orden de venta"
// @Success      201   {object}  dto.Response{data=dto.SalesOrderCreated}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKMessage("orden creada", out))
}

// List godoc
// @Summary      Listar órdenes de venta
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status      query  string  false  "pending, processing, completed o cancelled"
// @Param        customerId  query  string  false  "filtrar por cliente"
// @Param        startDate   query  string  false  "desde (YYYY-MM-DD, inclusivo)"
// @Param        endDate     query  string  false  "hasta (YYYY-MM-DD, inclusivo)"
// @Param        sortBy      query  string  false  "orderDate, totalAmount, status o customerName"
// @Param        sortOrder   query  string  false  "asc o desc"
// @Param        page        query  int     false  "página (desde 1)"
// @Param        limit       query  int     false  "tamaño de página"
// @Success      200  {object}  dto.Response{data=dto.SalesOrderListResponse}
// @Router       /api/v1/sales-orders [get]
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
	var in dto.ListSalesOrdersRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	out, err := h.uc.List(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Get godoc
// @Summary      Obtener una orden por ID
// @Description  Si la orden ya está espejada, refresca su estado desde Business Central en modo best-effort.
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.Response{data=dto.SalesOrderResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales-orders/{id} [get]
func (h *SalesOrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Actualizar una orden
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de la orden"
// @Param        body  body  dto.UpdateSalesOrderRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/sales-orders/{id} [put]
func (h *SalesOrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if details := dto.Validate(in); details != nil {
		return failValidation(c, details)
	}
	order, integration, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}

	data := fiber.Map{"order": order}
	if integration != nil {
		data["bcIntegration"] = integration
	}
	return c.JSON(dto.OKMessage("orden actualizada", data))
}

// Delete godoc
// @Summary      Eliminar una orden local
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales-orders/{id} [delete]
func (h *SalesOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "orden eliminada"})
}

// Stats godoc
// @Summary      Estadísticas de órdenes
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response{data=dto.SalesOrderStatsResponse}
// @Router       /api/v1/sales-orders/stats [get]
func (h *SalesOrderHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats()
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// TestBC godoc
// @Summary      Probar la conexión con Business Central
// @Description  Siempre responde 200: el resultado de la sonda (éxito o fallo) viaja en data.
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response
// @Router       /api/v1/sales-orders/bc-test [get]
func (h *SalesOrderHandler) TestBC(c *fiber.Ctx) error {
	return c.JSON(dto.OK(h.uc.TestConnection(c.Context())))
}

// Receipt godoc
// @Summary      Descargar el comprobante PDF de una orden
// @Tags         sales-orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales-orders/{id}/receipt [get]
func (h *SalesOrderHandler) Receipt(c *fiber.Ctx) error {
	data, filename, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
