package businesscentral

import (
	"time"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
)

// SalesOrderPayload es el cuerpo que espera la API v2.0 de Business Central
// para crear pedidos de venta. Los montos viajan como números JSON.
type SalesOrderPayload struct {
	CustomerNumber         string             `json:"customerNumber"`
	OrderDate              string             `json:"orderDate"`
	ExternalDocumentNumber string             `json:"externalDocumentNumber"`
	SellToCustomerName     string             `json:"sellToCustomerName,omitempty"`
	SellToAddress          *AddressPayload    `json:"sellToAddress,omitempty"`
	CurrencyCode           string             `json:"currencyCode"`
	PaymentTermsCode       string             `json:"paymentTermsCode"`
	ShipmentMethodCode     string             `json:"shipmentMethodCode"`
	SalesOrderLines        []SalesLinePayload `json:"salesOrderLines"`
}

type AddressPayload struct {
	Street            string `json:"street,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	CountryRegionCode string `json:"countryRegionCode"`
	PostalCode        string `json:"postalCode,omitempty"`
}

type SalesLinePayload struct {
	ItemID      string  `json:"itemId"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineAmount  float64 `json:"lineAmount"`
	Description string  `json:"description,omitempty"`
}

// toPayload traduce un pedido del dominio al formato de Business Central.
// Defaults: fecha de hoy si el pedido no trae fecha, país US, moneda del
// pedido (USD si falta) y condiciones NET30/STANDARD.
func toPayload(order *entity.SalesOrder) SalesOrderPayload {
	orderDate := order.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	currency := order.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	terms := order.PaymentTerms
	if terms == "" {
		terms = "NET30"
	}
	shipment := order.ShipmentMethod
	if shipment == "" {
		shipment = "STANDARD"
	}

	p := SalesOrderPayload{
		CustomerNumber:         order.CustomerID,
		OrderDate:              orderDate.Format("2006-01-02"),
		ExternalDocumentNumber: order.OrderNumber,
		SellToCustomerName:     order.CustomerName,
		CurrencyCode:           currency,
		PaymentTermsCode:       terms,
		ShipmentMethodCode:     shipment,
	}

	if a := order.CustomerAddress; a != (entity.CustomerAddress{}) {
		country := a.Country
		if country == "" {
			country = "US"
		}
		p.SellToAddress = &AddressPayload{
			Street:            a.Street,
			City:              a.City,
			State:             a.State,
			CountryRegionCode: country,
			PostalCode:        a.PostalCode,
		}
	}

	p.SalesOrderLines = make([]SalesLinePayload, 0, len(order.Items))
	for _, it := range order.Items {
		desc := it.Description
		if desc == "" {
			desc = it.ProductName
		}
		p.SalesOrderLines = append(p.SalesOrderLines, SalesLinePayload{
			ItemID:      it.ProductID,
			Quantity:    it.Quantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			LineAmount:  it.LineTotal.InexactFloat64(),
			Description: desc,
		})
	}

	return p
}
