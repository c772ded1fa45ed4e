package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden de venta.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// CustomerAddress dirección de envío del cliente. Todos los campos son opcionales.
type CustomerAddress struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
	Phone      string
	Email      string
}

// SalesOrderItem línea de la orden. Embebida en SalesOrder, no es entidad propia.
type SalesOrderItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	Description string
	SKU         string
	Barcode     string
}

// SalesOrder orden de venta local. Se crea primero aquí (status=pending) y luego
// se intenta espejarla en Business Central: si el envío funciona pasa a
// processing y BCOrderID/BCStatus quedan poblados; si falla, el registro local
// persiste con BCOrderID vacío y el fallo se reporta al caller como metadato.
type SalesOrder struct {
	ID              string
	OrderNumber     string
	CustomerID      string
	CustomerName    string
	CustomerAddress CustomerAddress
	Items           []SalesOrderItem
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	CurrencyCode    string
	PaymentMethod   string
	PaymentTerms    string
	ShipmentMethod  string
	OrderDate       time.Time
	Notes           string
	Status          string
	BCOrderID       string // id de la orden en Business Central; vacío si aún no se espejó
	BCStatus        string // último estado conocido en Business Central
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
