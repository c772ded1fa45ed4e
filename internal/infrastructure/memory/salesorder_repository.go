package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación en memoria del puerto SalesOrderRepository.
// El slice conserva el orden de inserción (= orden de creación).
type SalesOrderRepo struct {
	mu      sync.RWMutex
	orders  []*entity.SalesOrder
	counter int64
}

// NewSalesOrderRepository construye el repositorio vacío.
func NewSalesOrderRepository() *SalesOrderRepo {
	return &SalesOrderRepo{}
}

// Create agrega la orden al final de la colección.
func (r *SalesOrderRepo) Create(order *entity.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}

// GetByID busca por id. Retorna nil, nil si no existe.
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

// List aplica filtros, ordena y devuelve la página pedida junto con el total filtrado.
func (r *SalesOrderRepo) List(filter repository.SalesOrderFilter) ([]*entity.SalesOrder, int, error) {
	r.mu.RLock()
	filtered := make([]*entity.SalesOrder, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.StartDate != nil && o.OrderDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && o.OrderDate.After(*filter.EndDate) {
			continue
		}
		filtered = append(filtered, o)
	}
	r.mu.RUnlock()

	sortOrders(filtered, filter.SortBy, filter.SortOrder)

	total := len(filtered)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// Update reemplaza el registro con el mismo ID.
func (r *SalesOrderRepo) Update(order *entity.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == order.ID {
			r.orders[i] = order
			return nil
		}
	}
	return domain.ErrNotFound
}

// Delete elimina la orden físicamente (asimétrico con la baja lógica de User).
func (r *SalesOrderRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// NextOrderNumber genera un número SO-<epoch ms>-<secuencia>.
func (r *SalesOrderRepo) NextOrderNumber() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("SO-%d-%d", time.Now().UnixMilli(), r.counter), nil
}

// Stats calcula los agregados sobre el estado actual de la colección.
func (r *SalesOrderRepo) Stats(now time.Time) (*repository.SalesOrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &repository.SalesOrderStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		RevenueLast30Days: decimal.Zero,
	}
	cutoff := now.AddDate(0, 0, -30)

	for _, o := range r.orders {
		stats.TotalOrders++
		switch o.Status {
		case entity.StatusPending:
			stats.Pending++
		case entity.StatusProcessing:
			stats.Processing++
		case entity.StatusCompleted:
			stats.Completed++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		case entity.StatusCancelled:
			stats.Cancelled++
		}
		if !o.OrderDate.Before(cutoff) {
			stats.OrdersLast30Days++
			if o.Status == entity.StatusCompleted {
				stats.RevenueLast30Days = stats.RevenueLast30Days.Add(o.TotalAmount)
			}
		}
	}
	if stats.Completed > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.Completed)))
	}
	return stats, nil
}

// sortOrders ordena in place según el campo pedido, con comparación acorde al
// tipo del campo (fecha, monto decimal o cadena).
func sortOrders(orders []*entity.SalesOrder, sortBy, sortOrder string) {
	less := func(a, b *entity.SalesOrder) bool {
		switch sortBy {
		case repository.SortByTotalAmount:
			return a.TotalAmount.LessThan(b.TotalAmount)
		case repository.SortByStatus:
			return a.Status < b.Status
		case repository.SortByCustomerName:
			return a.CustomerName < b.CustomerName
		default: // orderDate
			return a.OrderDate.Before(b.OrderDate)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(orders[i], orders[j])
		}
		return less(orders[j], orders[i])
	})
}
