// Package catalog expone el catálogo de productos y clientes de Business
// Central en modo solo lectura. No hay copia local: cada consulta va al ERP.
package catalog

import (
	"context"

	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
)

// Gateway lo que el catálogo necesita de Business Central.
type Gateway interface {
	GetProducts(ctx context.Context, filter string, top, skip int) ([]map[string]any, error)
	GetCustomers(ctx context.Context, filter string, top, skip int) ([]map[string]any, error)
}

// UseCase consultas de catálogo contra Business Central.
type UseCase struct {
	bc Gateway
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(bc Gateway) *UseCase {
	return &UseCase{bc: bc}
}

// Page parámetros de paginación OData ($top/$skip).
type Page struct {
	Top  int
	Skip int
}

// Normalize aplica los defaults de paginación del catálogo.
func (p *Page) Normalize() {
	if p.Top <= 0 || p.Top > 100 {
		p.Top = 20
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// Query parámetros de listado del catálogo. Filter es un $filter OData crudo
// que pasa tal cual al ERP (la válvula de escape del API); Search se escapa y
// se combina en AND con Filter.
type Query struct {
	Filter string
	Search string
	Page
}

// odataFilter arma el $filter efectivo de la consulta.
func (q Query) odataFilter() string {
	if q.Search == "" {
		return q.Filter
	}
	return businesscentral.CombineFilters(q.Filter, businesscentral.SearchFilter(q.Search))
}

// Products lista items del catálogo.
func (uc *UseCase) Products(ctx context.Context, q Query) ([]map[string]any, error) {
	q.Normalize()
	return uc.bc.GetProducts(ctx, q.odataFilter(), q.Top, q.Skip)
}

// ProductByID busca un item por su GUID. Devuelve ErrNotFound si no existe o
// si el id no es un GUID.
func (uc *UseCase) ProductByID(ctx context.Context, id string) (map[string]any, error) {
	filter, err := businesscentral.GUIDFilter(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.bc.GetProducts(ctx, filter, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	return items[0], nil
}

// SearchProducts busca items por nombre o número.
func (uc *UseCase) SearchProducts(ctx context.Context, term string, page Page) ([]map[string]any, error) {
	page.Normalize()
	return uc.bc.GetProducts(ctx, businesscentral.SearchFilter(term), page.Top, page.Skip)
}

// Customers lista clientes.
func (uc *UseCase) Customers(ctx context.Context, q Query) ([]map[string]any, error) {
	q.Normalize()
	return uc.bc.GetCustomers(ctx, q.odataFilter(), q.Top, q.Skip)
}

// CustomerByID busca un cliente por su GUID. Devuelve ErrNotFound si no
// existe o si el id no es un GUID.
func (uc *UseCase) CustomerByID(ctx context.Context, id string) (map[string]any, error) {
	filter, err := businesscentral.GUIDFilter(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	customers, err := uc.bc.GetCustomers(ctx, filter, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, domain.ErrNotFound
	}
	return customers[0], nil
}

// SearchCustomers busca clientes por nombre o número.
func (uc *UseCase) SearchCustomers(ctx context.Context, term string, page Page) ([]map[string]any, error) {
	page.Normalize()
	return uc.bc.GetCustomers(ctx, businesscentral.SearchFilter(term), page.Top, page.Skip)
}
