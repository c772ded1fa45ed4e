package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
)

// UseCase casos de uso de órdenes de venta. La escritura local es la fuente de
// verdad: el espejo en Business Central es best-effort y su fallo nunca hace
// fallar la operación, solo queda reportado en el resultado de integración.
type UseCase struct {
	orders   repository.SalesOrderRepository
	bc       BCGateway
	receipts ReceiptGenerator
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(orders repository.SalesOrderRepository, bc BCGateway, receipts ReceiptGenerator) *UseCase {
	return &UseCase{orders: orders, bc: bc, receipts: receipts}
}

// Create persiste la orden localmente (status=pending) y luego intenta
// espejarla en Business Central. Si el espejo funciona, la orden pasa a
// processing con BCOrderID/BCStatus poblados; si falla, la orden local queda
// intacta y el fallo viaja en BCIntegration.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSalesOrderRequest) (*dto.SalesOrderCreated, error) {
	in.Normalize()

	orderNumber := in.OrderNumber
	if orderNumber == "" {
		var err error
		orderNumber, err = uc.orders.NextOrderNumber()
		if err != nil {
			return nil, err
		}
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	now := time.Now()
	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		OrderNumber:  orderNumber,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		CustomerAddress: entity.CustomerAddress{
			Street:     in.CustomerAddress.Street,
			City:       in.CustomerAddress.City,
			State:      in.CustomerAddress.State,
			Country:    in.CustomerAddress.Country,
			PostalCode: in.CustomerAddress.PostalCode,
			Phone:      in.CustomerAddress.Phone,
			Email:      in.CustomerAddress.Email,
		},
		Items:          toEntityItems(in.Items),
		Subtotal:       in.Subtotal,
		TaxAmount:      in.TaxAmount,
		TotalAmount:    in.TotalAmount,
		CurrencyCode:   in.CurrencyCode,
		PaymentMethod:  in.PaymentMethod,
		PaymentTerms:   in.PaymentTerms,
		ShipmentMethod: in.ShipmentMethod,
		OrderDate:      orderDate,
		Notes:          in.Notes,
		Status:         entity.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.orders.Create(order); err != nil {
		return nil, err
	}

	integration := uc.mirrorCreate(ctx, order)
	return &dto.SalesOrderCreated{
		Order:         dto.ToSalesOrderResponse(order),
		BCIntegration: integration,
	}, nil
}

// mirrorCreate intenta crear la orden en Business Central y actualiza el
// registro local con el resultado. Nunca devuelve error.
func (uc *UseCase) mirrorCreate(ctx context.Context, order *entity.SalesOrder) dto.BCIntegrationResult {
	result, err := uc.bc.CreateSalesOrder(ctx, order)
	if err != nil {
		log.Warn().Err(err).Str("orderId", order.ID).
			Msg("no se pudo espejar la orden en Business Central; queda pendiente")
		return dto.BCIntegrationResult{Success: false, Error: err.Error()}
	}

	order.BCOrderID = result.BCOrderID
	order.BCStatus = result.Status
	order.Status = entity.StatusProcessing
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(order); err != nil {
		// La orden existe en BC pero el estado local no se pudo avanzar; se
		// reporta el espejo como exitoso con el estado que sí quedó grabado.
		log.Error().Err(err).Str("orderId", order.ID).
			Msg("orden espejada pero no se pudo actualizar el registro local")
	}
	return dto.BCIntegrationResult{
		Success:   true,
		BCOrderID: result.BCOrderID,
		BCStatus:  result.Status,
	}
}

// List devuelve la página de órdenes que pasa los filtros.
func (uc *UseCase) List(in dto.ListSalesOrdersRequest) (*dto.SalesOrderListResponse, error) {
	in.Normalize()

	orders, total, err := uc.orders.List(in.ToFilter())
	if err != nil {
		return nil, err
	}

	out := make([]dto.SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToSalesOrderResponse(o))
	}
	return &dto.SalesOrderListResponse{
		Orders:     out,
		Pagination: dto.NewPagination(in.Page, in.Limit, total),
	}, nil
}

// Get devuelve una orden por ID. Si la orden ya está espejada, refresca
// BCStatus consultando Business Central; un fallo del refresco se ignora y se
// devuelve el último estado conocido.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if order.BCOrderID != "" {
		if remote, err := uc.bc.GetSalesOrder(ctx, order.BCOrderID); err != nil {
			log.Debug().Err(err).Str("orderId", order.ID).
				Msg("no se pudo refrescar el estado desde Business Central")
		} else if remote.Status != order.BCStatus {
			order.BCStatus = remote.Status
			order.UpdatedAt = time.Now()
			if err := uc.orders.Update(order); err != nil {
				log.Debug().Err(err).Str("orderId", order.ID).Msg("no se pudo grabar el estado refrescado")
			}
		}
	}

	resp := dto.ToSalesOrderResponse(order)
	return &resp, nil
}

// Update aplica una actualización parcial sobre la orden. Una orden que ya
// está en procesamiento no puede volver a pendiente. Si la orden está
// espejada, el cambio también se envía a Business Central en modo best-effort.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateSalesOrderRequest) (*dto.SalesOrderResponse, *dto.BCIntegrationResult, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}

	if in.Status != nil && *in.Status == entity.StatusPending && order.Status == entity.StatusProcessing {
		return nil, nil, domain.ErrStatusRollback
	}

	if in.CustomerName != nil {
		order.CustomerName = *in.CustomerName
	}
	if in.CustomerAddress != nil {
		order.CustomerAddress = entity.CustomerAddress{
			Street:     in.CustomerAddress.Street,
			City:       in.CustomerAddress.City,
			State:      in.CustomerAddress.State,
			Country:    in.CustomerAddress.Country,
			PostalCode: in.CustomerAddress.PostalCode,
			Phone:      in.CustomerAddress.Phone,
			Email:      in.CustomerAddress.Email,
		}
	}
	if in.Items != nil {
		order.Items = toEntityItems(in.Items)
	}
	if in.Subtotal != nil {
		order.Subtotal = *in.Subtotal
	}
	if in.TaxAmount != nil {
		order.TaxAmount = *in.TaxAmount
	}
	if in.TotalAmount != nil {
		order.TotalAmount = *in.TotalAmount
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.Status != nil {
		order.Status = *in.Status
	}
	order.UpdatedAt = time.Now()

	if err := uc.orders.Update(order); err != nil {
		return nil, nil, err
	}

	var integration *dto.BCIntegrationResult
	if order.BCOrderID != "" {
		if err := uc.bc.UpdateSalesOrder(ctx, order.BCOrderID, order); err != nil {
			log.Warn().Err(err).Str("orderId", order.ID).
				Msg("no se pudo propagar la actualización a Business Central")
			integration = &dto.BCIntegrationResult{Success: false, Error: err.Error()}
		} else {
			integration = &dto.BCIntegrationResult{
				Success:   true,
				BCOrderID: order.BCOrderID,
				BCStatus:  order.BCStatus,
			}
		}
	}

	resp := dto.ToSalesOrderResponse(order)
	return &resp, integration, nil
}

// Delete elimina la orden local. La orden espejada en Business Central no se
// toca: la cancelación en el ERP es un proceso administrativo aparte.
func (uc *UseCase) Delete(id string) error {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return uc.orders.Delete(id)
}

// Stats devuelve los agregados de órdenes.
func (uc *UseCase) Stats() (*dto.SalesOrderStatsResponse, error) {
	stats, err := uc.orders.Stats(time.Now())
	if err != nil {
		return nil, err
	}
	resp := dto.ToStatsResponse(stats)
	return &resp, nil
}

// TestConnection verifica la conectividad contra Business Central.
func (uc *UseCase) TestConnection(ctx context.Context) *businesscentral.ConnectionResult {
	return uc.bc.TestConnection(ctx)
}

func toEntityItems(items []dto.SalesOrderItemDTO) []entity.SalesOrderItem {
	out := make([]entity.SalesOrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.SalesOrderItem{
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
	return out
}

// Receipt genera el comprobante PDF de una orden y propone un nombre de archivo.
func (uc *UseCase) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	data, err := uc.receipts.GenerateReceipt(ctx, order)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("comprobante-%s.pdf", order.OrderNumber), nil
}
