package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/catalog"
	"github.com/jhoicas/pos-central-api/internal/application/dto"
)

// CatalogHandler expone productos y clientes de Business Central (solo lectura).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler de catálogo.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func catalogPage(c *fiber.Ctx) catalog.Page {
	return catalog.Page{
		Top:  c.QueryInt("limit"),
		Skip: c.QueryInt("offset"),
	}
}

func catalogQuery(c *fiber.Ctx) catalog.Query {
	return catalog.Query{
		Filter: c.Query("filter"),
		Search: c.Query("search"),
		Page:   catalogPage(c),
	}
}

// searchTerm extrae el término de la ruta. Los segmentos de path llegan
// URL-codificados; un término con espacios viaja como %20.
func searchTerm(c *fiber.Ctx) string {
	raw := c.Params("term")
	if term, err := url.PathUnescape(raw); err == nil {
		return term
	}
	return raw
}

// Products godoc
// @Summary      Listar productos del catálogo
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  false  "$filter OData crudo, pasa tal cual al ERP"
// @Param        search  query  string  false  "búsqueda por nombre o número, combinada en AND con filter"
// @Param        limit   query  int     false  "máximo de registros"
// @Param        offset  query  int     false  "registros a saltar"
// @Success      200  {object}  dto.Response
// @Router       /api/v1/products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	items, err := h.uc.Products(c.Context(), catalogQuery(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(items))
}

// ProductByID godoc
// @Summary      Obtener un producto por id
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "GUID del producto en Business Central"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [get]
func (h *CatalogHandler) ProductByID(c *fiber.Ctx) error {
	item, err := h.uc.ProductByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(item))
}

// SearchProducts godoc
// @Summary      Buscar productos por nombre o número
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        term  path  string  true  "término de búsqueda"
// @Success      200  {object}  dto.Response
// @Router       /api/v1/products/search/{term} [get]
func (h *CatalogHandler) SearchProducts(c *fiber.Ctx) error {
	term := searchTerm(c)
	if term == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "el término de búsqueda es requerido")
	}
	items, err := h.uc.SearchProducts(c.Context(), term, catalogPage(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(items))
}

// Customers godoc
// @Summary      Listar clientes
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  false  "$filter OData crudo, pasa tal cual al ERP"
// @Param        search  query  string  false  "búsqueda por nombre o número, combinada en AND con filter"
// @Param        limit   query  int     false  "máximo de registros"
// @Param        offset  query  int     false  "registros a saltar"
// @Success      200  {object}  dto.Response
// @Router       /api/v1/customers [get]
func (h *CatalogHandler) Customers(c *fiber.Ctx) error {
	customers, err := h.uc.Customers(c.Context(), catalogQuery(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(customers))
}

// CustomerByID godoc
// @Summary      Obtener un cliente por id
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "GUID del cliente en Business Central"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/customers/{id} [get]
func (h *CatalogHandler) CustomerByID(c *fiber.Ctx) error {
	customer, err := h.uc.CustomerByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(customer))
}

// SearchCustomers godoc
// @Summary      Buscar clientes por nombre o número
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        term  path  string  true  "término de búsqueda"
// @Success      200  {object}  dto.Response
// @Router       /api/v1/customers/search/{term} [get]
func (h *CatalogHandler) SearchCustomers(c *fiber.Ctx) error {
	term := searchTerm(c)
	if term == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "el término de búsqueda es requerido")
	}
	customers, err := h.uc.SearchCustomers(c.Context(), term, catalogPage(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.OK(customers))
}
