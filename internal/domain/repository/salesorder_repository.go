package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
)

// Campos de ordenamiento aceptados por List.
const (
	SortByOrderDate    = "orderDate"
	SortByTotalAmount  = "totalAmount"
	SortByStatus       = "status"
	SortByCustomerName = "customerName"
)

// SalesOrderFilter criterios de listado: filtros, orden y paginación.
// StartDate/EndDate acotan OrderDate de forma inclusiva.
type SalesOrderFilter struct {
	Status     string
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string // orderDate, totalAmount, status, customerName
	SortOrder  string // asc, desc
	Page       int
	Limit      int
}

// SalesOrderStats agregados para el endpoint de estadísticas. El ingreso solo
// cuenta órdenes completadas; la actividad reciente es la ventana móvil de 30
// días al momento de la consulta.
type SalesOrderStats struct {
	TotalOrders       int
	Pending           int
	Processing        int
	Completed         int
	Cancelled         int
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	OrdersLast30Days  int
	RevenueLast30Days decimal.Decimal
}

// SalesOrderRepository define el puerto de persistencia para SalesOrder.
// A diferencia de User, Delete es una eliminación física.
type SalesOrderRepository interface {
	Create(order *entity.SalesOrder) error
	GetByID(id string) (*entity.SalesOrder, error)
	// List devuelve la página solicitada y el total de órdenes que pasan el filtro.
	List(filter SalesOrderFilter) ([]*entity.SalesOrder, int, error)
	Update(order *entity.SalesOrder) error
	Delete(id string) error
	// NextOrderNumber genera un número de orden secuencial derivado de timestamp
	// (ej. SO-1693420800000-7) para órdenes que llegan sin número propio.
	NextOrderNumber() (string, error)
	Stats(now time.Time) (*SalesOrderStats, error)
}
