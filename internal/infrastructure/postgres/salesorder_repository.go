package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación del puerto SalesOrderRepository sobre PostgreSQL.
// Las líneas y la dirección del cliente se guardan como JSONB: se leen y
// escriben siempre completas junto con la orden, nunca por separado.
type SalesOrderRepo struct {
	pool *pgxpool.Pool
}

// NewSalesOrderRepository construye el adaptador de persistencia para órdenes.
func NewSalesOrderRepository(pool *pgxpool.Pool) *SalesOrderRepo {
	return &SalesOrderRepo{pool: pool}
}

const orderColumns = `id, order_number, customer_id, customer_name, customer_address, items,
	subtotal, tax_amount, total_amount, currency_code, payment_method, payment_terms,
	shipment_method, order_date, notes, status, bc_order_id, bc_status, created_at, updated_at`

// Columnas de orden permitidas, indexadas por el nombre público del campo.
var sortColumns = map[string]string{
	repository.SortByOrderDate:    "order_date",
	repository.SortByTotalAmount:  "total_amount",
	repository.SortByStatus:       "status",
	repository.SortByCustomerName: "customer_name",
}

func scanOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	var address, items []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &address, &items,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.CurrencyCode, &o.PaymentMethod,
		&o.PaymentTerms, &o.ShipmentMethod, &o.OrderDate, &o.Notes, &o.Status,
		&o.BCOrderID, &o.BCStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sales order: %w", err)
	}
	if err := json.Unmarshal(address, &o.CustomerAddress); err != nil {
		return nil, fmt.Errorf("decodificar customer_address: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decodificar items: %w", err)
	}
	return &o, nil
}

func encodeOrder(order *entity.SalesOrder) (address, items []byte, err error) {
	address, err = json.Marshal(order.CustomerAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("codificar customer_address: %w", err)
	}
	items, err = json.Marshal(order.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("codificar items: %w", err)
	}
	return address, items, nil
}

// Create persiste una nueva orden.
func (r *SalesOrderRepo) Create(order *entity.SalesOrder) error {
	address, items, err := encodeOrder(order)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sales_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.pool.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, address, items,
		order.Subtotal, order.TaxAmount, order.TotalAmount, order.CurrencyCode, order.PaymentMethod,
		order.PaymentTerms, order.ShipmentMethod, order.OrderDate, order.Notes, order.Status,
		order.BCOrderID, order.BCStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err) != "" {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. Devuelve nil, nil si no existe.
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(context.Background(), query, id))
}

// List devuelve la página solicitada y el total de órdenes que pasan el filtro.
func (r *SalesOrderRepo) List(filter repository.SalesOrderFilter) ([]*entity.SalesOrder, int, error) {
	where := " WHERE true"
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND order_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND order_date <= $%d", len(args))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "order_date"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + orderColumns + `, count(*) OVER() FROM sales_orders` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", column, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.SalesOrder
	var total int
	for rows.Next() {
		var o entity.SalesOrder
		var address, items []byte
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &address, &items,
			&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.CurrencyCode, &o.PaymentMethod,
			&o.PaymentTerms, &o.ShipmentMethod, &o.OrderDate, &o.Notes, &o.Status,
			&o.BCOrderID, &o.BCStatus, &o.CreatedAt, &o.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sales order: %w", err)
		}
		if err := json.Unmarshal(address, &o.CustomerAddress); err != nil {
			return nil, 0, fmt.Errorf("decodificar customer_address: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, 0, fmt.Errorf("decodificar items: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// La página solicitada puede quedar fuera de rango; el total igual se conoce.
	if total == 0 && len(list) == 0 {
		if err := r.pool.QueryRow(context.Background(),
			`SELECT count(*) FROM sales_orders`+where, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count sales orders: %w", err)
		}
	}
	return list, total, nil
}

// Update actualiza una orden completa.
func (r *SalesOrderRepo) Update(order *entity.SalesOrder) error {
	address, items, err := encodeOrder(order)
	if err != nil {
		return err
	}
	query := `
		UPDATE sales_orders SET order_number = $2, customer_id = $3, customer_name = $4,
			customer_address = $5, items = $6, subtotal = $7, tax_amount = $8, total_amount = $9,
			currency_code = $10, payment_method = $11, payment_terms = $12, shipment_method = $13,
			order_date = $14, notes = $15, status = $16, bc_order_id = $17, bc_status = $18,
			updated_at = $19
		WHERE id = $1`
	tag, err := r.pool.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, address, items,
		order.Subtotal, order.TaxAmount, order.TotalAmount, order.CurrencyCode, order.PaymentMethod,
		order.PaymentTerms, order.ShipmentMethod, order.OrderDate, order.Notes, order.Status,
		order.BCOrderID, order.BCStatus, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una orden físicamente.
func (r *SalesOrderRepo) Delete(id string) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM sales_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextOrderNumber genera un número de orden a partir del timestamp actual y una
// secuencia de la base, para garantizar unicidad entre instancias.
func (r *SalesOrderRepo) NextOrderNumber() (string, error) {
	var seq int64
	err := r.pool.QueryRow(context.Background(), `SELECT nextval('sales_order_number_seq')`).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("SO-%d-%d", time.Now().UnixMilli(), seq), nil
}

// Stats calcula los agregados de órdenes en una sola pasada.
func (r *SalesOrderRepo) Stats(now time.Time) (*repository.SalesOrderStats, error) {
	cutoff := now.AddDate(0, 0, -30)
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'processing'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(sum(total_amount) FILTER (WHERE status = 'completed'), 0),
			count(*) FILTER (WHERE order_date >= $1),
			COALESCE(sum(total_amount) FILTER (WHERE status = 'completed' AND order_date >= $1), 0)
		FROM sales_orders`

	var s repository.SalesOrderStats
	err := r.pool.QueryRow(context.Background(), query, cutoff).Scan(
		&s.TotalOrders, &s.Pending, &s.Processing, &s.Completed, &s.Cancelled,
		&s.TotalRevenue, &s.OrdersLast30Days, &s.RevenueLast30Days,
	)
	if err != nil {
		return nil, fmt.Errorf("stats sales orders: %w", err)
	}
	if s.Completed > 0 {
		s.AverageOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.Completed)))
	}
	return &s, nil
}
