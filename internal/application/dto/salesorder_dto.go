package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
)

// CustomerAddressDTO dirección de envío; todos los campos son opcionales.
type CustomerAddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// SalesOrderItemDTO línea de la orden, tanto en entrada como en salida.
type SalesOrderItemDTO struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gt=0"`
	LineTotal   decimal.Decimal `json:"lineTotal" validate:"gt=0"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode"`
}

// CreateSalesOrderRequest entrada para crear una orden. OrderNumber es
// opcional: si falta, el backend genera uno.
type CreateSalesOrderRequest struct {
	OrderNumber     string              `json:"orderNumber"`
	CustomerID      string              `json:"customerId" validate:"required"`
	CustomerName    string              `json:"customerName" validate:"required"`
	CustomerAddress CustomerAddressDTO  `json:"customerAddress"`
	Items           []SalesOrderItemDTO `json:"items" validate:"required,min=1,dive"`
	Subtotal        decimal.Decimal     `json:"subtotal" validate:"gt=0"`
	TaxAmount       decimal.Decimal     `json:"taxAmount" validate:"gte=0"`
	TotalAmount     decimal.Decimal     `json:"totalAmount" validate:"gt=0"`
	CurrencyCode    string              `json:"currencyCode" validate:"omitempty,len=3"`
	PaymentMethod   string              `json:"paymentMethod"`
	PaymentTerms    string              `json:"paymentTerms"`
	ShipmentMethod  string              `json:"shipmentMethod"`
	OrderDate       *time.Time          `json:"orderDate"`
	Notes           string              `json:"notes"`
}

// Normalize aplica los defaults de creación.
func (r *CreateSalesOrderRequest) Normalize() {
	if r.CurrencyCode == "" {
		r.CurrencyCode = "USD"
	}
}

// UpdateSalesOrderRequest entrada de actualización parcial: solo los campos
// presentes se aplican sobre la orden existente.
type UpdateSalesOrderRequest struct {
	CustomerName    *string             `json:"customerName" validate:"omitempty,min=1"`
	CustomerAddress *CustomerAddressDTO `json:"customerAddress"`
	Items           []SalesOrderItemDTO `json:"items" validate:"omitempty,min=1,dive"`
	Subtotal        *decimal.Decimal    `json:"subtotal" validate:"omitempty,gt=0"`
	TaxAmount       *decimal.Decimal    `json:"taxAmount" validate:"omitempty,gte=0"`
	TotalAmount     *decimal.Decimal    `json:"totalAmount" validate:"omitempty,gt=0"`
	PaymentMethod   *string             `json:"paymentMethod"`
	Notes           *string             `json:"notes"`
	Status          *string             `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
}

// ListSalesOrdersRequest filtros, orden y paginación del listado.
type ListSalesOrdersRequest struct {
	Status     string `query:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	CustomerID string `query:"customerId"`
	StartDate  string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	SortBy     string `query:"sortBy" validate:"omitempty,oneof=orderDate totalAmount status customerName"`
	SortOrder  string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize aplica los defaults de listado.
func (r *ListSalesOrdersRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = 10
	}
	if r.SortBy == "" {
		r.SortBy = repository.SortByOrderDate
	}
	if r.SortOrder == "" {
		r.SortOrder = "desc"
	}
}

// ToFilter traduce el request al filtro del repositorio. Las fechas ya pasaron
// la validación de formato; EndDate se extiende al fin del día para que el
// rango sea inclusivo.
func (r *ListSalesOrdersRequest) ToFilter() repository.SalesOrderFilter {
	f := repository.SalesOrderFilter{
		Status:     r.Status,
		CustomerID: r.CustomerID,
		SortBy:     r.SortBy,
		SortOrder:  r.SortOrder,
		Page:       r.Page,
		Limit:      r.Limit,
	}
	if r.StartDate != "" {
		if t, err := time.Parse("2006-01-02", r.StartDate); err == nil {
			f.StartDate = &t
		}
	}
	if r.EndDate != "" {
		if t, err := time.Parse("2006-01-02", r.EndDate); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.EndDate = &end
		}
	}
	return f
}

// BCIntegrationResult resultado del espejo en Business Central que acompaña a
// las operaciones de escritura. Success=false nunca implica fallo local.
type BCIntegrationResult struct {
	Success   bool   `json:"success"`
	BCOrderID string `json:"bcOrderId,omitempty"`
	BCStatus  string `json:"bcStatus,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SalesOrderResponse salida de una orden. Los campos de Business Central son
// punteros: null en el JSON mientras la orden no se haya espejado.
type SalesOrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	CustomerID      string              `json:"customerId"`
	CustomerName    string              `json:"customerName"`
	CustomerAddress CustomerAddressDTO  `json:"customerAddress"`
	Items           []SalesOrderItemDTO `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"taxAmount"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	CurrencyCode    string              `json:"currencyCode"`
	PaymentMethod   string              `json:"paymentMethod,omitempty"`
	PaymentTerms    string              `json:"paymentTerms,omitempty"`
	ShipmentMethod  string              `json:"shipmentMethod,omitempty"`
	OrderDate       time.Time           `json:"orderDate"`
	Notes           string              `json:"notes,omitempty"`
	Status          string              `json:"status"`
	BCOrderID       *string             `json:"bcOrderId"`
	BCStatus        *string             `json:"bcStatus"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// SalesOrderCreated salida de la creación: la orden más el resultado del espejo.
type SalesOrderCreated struct {
	Order         SalesOrderResponse  `json:"order"`
	BCIntegration BCIntegrationResult `json:"bcIntegration"`
}

// SalesOrderListResponse lista paginada de órdenes.
type SalesOrderListResponse struct {
	Orders     []SalesOrderResponse `json:"orders"`
	Pagination Pagination           `json:"pagination"`
}

// SalesOrderStatsResponse agregados del endpoint de estadísticas.
type SalesOrderStatsResponse struct {
	TotalOrders       int             `json:"totalOrders"`
	Pending           int             `json:"pending"`
	Processing        int             `json:"processing"`
	Completed         int             `json:"completed"`
	Cancelled         int             `json:"cancelled"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersLast30Days  int             `json:"ordersLast30Days"`
	RevenueLast30Days decimal.Decimal `json:"revenueLast30Days"`
}

// ToSalesOrderResponse convierte la entidad al DTO de salida.
func ToSalesOrderResponse(o *entity.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SalesOrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			Description: it.Description,
			SKU:         it.SKU,
			Barcode:     it.Barcode,
		})
	}

	resp := SalesOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		CustomerAddress: CustomerAddressDTO{
			Street:     o.CustomerAddress.Street,
			City:       o.CustomerAddress.City,
			State:      o.CustomerAddress.State,
			Country:    o.CustomerAddress.Country,
			PostalCode: o.CustomerAddress.PostalCode,
			Phone:      o.CustomerAddress.Phone,
			Email:      o.CustomerAddress.Email,
		},
		Items:          items,
		Subtotal:       o.Subtotal,
		TaxAmount:      o.TaxAmount,
		TotalAmount:    o.TotalAmount,
		CurrencyCode:   o.CurrencyCode,
		PaymentMethod:  o.PaymentMethod,
		PaymentTerms:   o.PaymentTerms,
		ShipmentMethod: o.ShipmentMethod,
		OrderDate:      o.OrderDate,
		Notes:          o.Notes,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.BCOrderID != "" {
		resp.BCOrderID = &o.BCOrderID
	}
	if o.BCStatus != "" {
		resp.BCStatus = &o.BCStatus
	}
	return resp
}

// ToUserResponse convierte la entidad al DTO de salida.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToStatsResponse convierte los agregados del repositorio al DTO de salida.
func ToStatsResponse(s *repository.SalesOrderStats) SalesOrderStatsResponse {
	return SalesOrderStatsResponse{
		TotalOrders:       s.TotalOrders,
		Pending:           s.Pending,
		Processing:        s.Processing,
		Completed:         s.Completed,
		Cancelled:         s.Cancelled,
		TotalRevenue:      s.TotalRevenue,
		AverageOrderValue: s.AverageOrderValue,
		OrdersLast30Days:  s.OrdersLast30Days,
		RevenueLast30Days: s.RevenueLast30Days,
	}
}
