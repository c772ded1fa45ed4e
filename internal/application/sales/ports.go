package sales

import (
	"context"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
)

// BCGateway puerto hacia Business Central: lo que el caso de uso de ventas
// necesita del ERP, nada más.
type BCGateway interface {
	CreateSalesOrder(ctx context.Context, order *entity.SalesOrder) (*businesscentral.CreateResult, error)
	GetSalesOrder(ctx context.Context, bcOrderID string) (*businesscentral.BCSalesOrder, error)
	UpdateSalesOrder(ctx context.Context, bcOrderID string, order *entity.SalesOrder) error
	TestConnection(ctx context.Context) *businesscentral.ConnectionResult
}

// ReceiptGenerator puerto de generación del comprobante PDF de una orden.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.SalesOrder) ([]byte, error)
}
