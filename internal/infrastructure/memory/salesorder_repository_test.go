package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/memory"
)

func newOrder(n int, status string, orderDate time.Time, total int64) *entity.SalesOrder {
	now := time.Now()
	return &entity.SalesOrder{
		ID:           uuid.New().String(),
		OrderNumber:  fmt.Sprintf("SO-%03d", n),
		CustomerID:   fmt.Sprintf("C-%03d", n%3),
		CustomerName: fmt.Sprintf("Cliente %d", n),
		TotalAmount:  decimal.NewFromInt(total),
		OrderDate:    orderDate,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSalesOrderRepo_PaginacionExacta(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		require.NoError(t, repo.Create(newOrder(i, entity.StatusPending, base.Add(time.Duration(i)*time.Hour), int64(i*10))))
	}

	page, total, err := repo.List(repository.SalesOrderFilter{
		SortBy: repository.SortByOrderDate, SortOrder: "asc", Page: 2, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page, 10)
	// Página 2 con límite 10: órdenes 11 a 20.
	assert.Equal(t, "SO-011", page[0].OrderNumber)
	assert.Equal(t, "SO-020", page[9].OrderNumber)

	// Última página corta.
	page, total, err = repo.List(repository.SalesOrderFilter{
		SortBy: repository.SortByOrderDate, SortOrder: "asc", Page: 3, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page, 5)

	// Página fuera de rango: vacía pero con el total correcto.
	page, total, err = repo.List(repository.SalesOrderFilter{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, page)
}

func TestSalesOrderRepo_FiltroPorEstadoYCliente(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(newOrder(1, entity.StatusPending, base, 10)))
	require.NoError(t, repo.Create(newOrder(2, entity.StatusCompleted, base, 20)))
	require.NoError(t, repo.Create(newOrder(3, entity.StatusCompleted, base, 30)))

	page, total, err := repo.List(repository.SalesOrderFilter{
		Status: entity.StatusCompleted, Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)

	page, total, err = repo.List(repository.SalesOrderFilter{
		CustomerID: "C-001", Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "SO-001", page[0].OrderNumber)
}

func TestSalesOrderRepo_RangoDeFechasInclusivo(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(newOrder(i, entity.StatusPending, day(i), 10)))
	}

	start, end := day(2), day(4)
	page, total, err := repo.List(repository.SalesOrderFilter{
		StartDate: &start, EndDate: &end, SortBy: repository.SortByOrderDate,
		SortOrder: "asc", Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "los extremos del rango se incluyen")
	assert.Equal(t, "SO-002", page[0].OrderNumber)
	assert.Equal(t, "SO-004", page[2].OrderNumber)
}

func TestSalesOrderRepo_OrdenPorMontoEsNumerico(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	base := time.Now()
	// Montos elegidos para que el orden lexicográfico fallara: "9" > "100".
	require.NoError(t, repo.Create(newOrder(1, entity.StatusPending, base, 9)))
	require.NoError(t, repo.Create(newOrder(2, entity.StatusPending, base, 100)))
	require.NoError(t, repo.Create(newOrder(3, entity.StatusPending, base, 25)))

	page, _, err := repo.List(repository.SalesOrderFilter{
		SortBy: repository.SortByTotalAmount, SortOrder: "asc", Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "SO-001", page[0].OrderNumber)
	assert.Equal(t, "SO-003", page[1].OrderNumber)
	assert.Equal(t, "SO-002", page[2].OrderNumber)
}

func TestSalesOrderRepo_DeleteEsFisico(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	o := newOrder(1, entity.StatusPending, time.Now(), 10)
	require.NoError(t, repo.Create(o))

	require.NoError(t, repo.Delete(o.ID))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(o.ID), domain.ErrNotFound)
}

func TestSalesOrderRepo_NextOrderNumberEsUnico(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := repo.NextOrderNumber()
		require.NoError(t, err)
		assert.False(t, seen[n], "número repetido: %s", n)
		seen[n] = true
	}
}

func TestSalesOrderRepo_Stats(t *testing.T) {
	repo := memory.NewSalesOrderRepository()
	now := time.Now()
	old := now.AddDate(0, 0, -60)

	require.NoError(t, repo.Create(newOrder(1, entity.StatusPending, now, 10)))
	require.NoError(t, repo.Create(newOrder(2, entity.StatusCompleted, now, 100)))
	require.NoError(t, repo.Create(newOrder(3, entity.StatusCompleted, old, 50)))
	require.NoError(t, repo.Create(newOrder(4, entity.StatusCancelled, now, 70)))

	stats, err := repo.Stats(now)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	// El ingreso solo cuenta completadas: 100 + 50.
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(150)), "TotalRevenue = %s", stats.TotalRevenue)
	assert.True(t, stats.AverageOrderValue.Equal(decimal.NewFromInt(75)))
	// La ventana de 30 días deja fuera la orden vieja.
	assert.Equal(t, 3, stats.OrdersLast30Days)
	assert.True(t, stats.RevenueLast30Days.Equal(decimal.NewFromInt(100)))
}
