package businesscentral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
)

// Config parámetros de conexión contra la API v2.0 de Business Central.
// TokenURL permite apuntar el grant OAuth2 a un endpoint alternativo en tests.
type Config struct {
	BaseURL      string
	TenantID     string
	ClientID     string
	ClientSecret string
	CompanyID    string
	TokenURL     string
}

// Client habla con la API REST de Business Central. Se apoya en net/http
// directamente: el protocolo es un REST plano con OAuth2 y no amerita un SDK.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *tokenManager
}

// CreateResult resultado de crear un pedido en Business Central.
type CreateResult struct {
	BCOrderID   string
	OrderNumber string
	Status      string
}

// BCSalesOrder estado remoto de un pedido ya espejado.
type BCSalesOrder struct {
	ID     string
	Number string
	Status string
}

// ConnectionResult diagnóstico de conectividad. Nunca se reporta como error:
// el fallo viaja en Success=false y Error, para que el probe jamás tumbe al caller.
type ConnectionResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Companies []map[string]any `json:"companies,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func New(cfg Config) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		tokens:     newTokenManager(cfg, httpClient),
	}
}

// apiURL arma la URL base de recursos de la compañía configurada.
func (c *Client) apiURL(resource string) string {
	return fmt.Sprintf("%s/%s/%s/api/v2.0%s", c.cfg.BaseURL, c.cfg.TenantID, c.cfg.CompanyID, resource)
}

// do ejecuta un request autenticado y devuelve el cuerpo si el estado es 2xx.
// En caso contrario el error incluye el cuerpo de la respuesta, que en
// Business Central trae el detalle OData del fallo.
func (c *Client) do(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serializar payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPatch {
		// BC exige control de concurrencia optimista en updates; aceptamos cualquier versión.
		req.Header.Set("If-Match", "*")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request a Business Central: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().
			Str("method", method).
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Msg("Business Central respondió con error")
		return nil, fmt.Errorf("Business Central respondió %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

// CreateSalesOrder traduce el pedido local al formato de BC y lo crea.
func (c *Client) CreateSalesOrder(ctx context.Context, order *entity.SalesOrder) (*CreateResult, error) {
	data, err := c.do(ctx, http.MethodPost, c.apiURL("/salesOrders"), toPayload(order))
	if err != nil {
		return nil, err
	}

	var out struct {
		ID     string `json:"id"`
		Number string `json:"number"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decodificar respuesta de creación: %w", err)
	}

	log.Info().Str("bcOrderId", out.ID).Str("orderNumber", order.OrderNumber).
		Msg("pedido espejado en Business Central")
	return &CreateResult{BCOrderID: out.ID, OrderNumber: out.Number, Status: out.Status}, nil
}

// GetSalesOrder consulta el estado remoto de un pedido por su id de BC.
func (c *Client) GetSalesOrder(ctx context.Context, bcOrderID string) (*BCSalesOrder, error) {
	data, err := c.do(ctx, http.MethodGet, c.apiURL(fmt.Sprintf("/salesOrders(%s)", bcOrderID)), nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		ID     string `json:"id"`
		Number string `json:"number"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decodificar pedido remoto: %w", err)
	}
	return &BCSalesOrder{ID: out.ID, Number: out.Number, Status: out.Status}, nil
}

// UpdateSalesOrder aplica un PATCH con el estado actual del pedido local.
func (c *Client) UpdateSalesOrder(ctx context.Context, bcOrderID string, order *entity.SalesOrder) error {
	_, err := c.do(ctx, http.MethodPatch, c.apiURL(fmt.Sprintf("/salesOrders(%s)", bcOrderID)), toPayload(order))
	return err
}

// collection consulta un recurso listado de BC y desempaqueta el sobre OData.
func (c *Client) collection(ctx context.Context, resource, filter string, top, skip int) ([]map[string]any, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("$filter", filter)
	}
	if top > 0 {
		q.Set("$top", fmt.Sprint(top))
	}
	if skip > 0 {
		q.Set("$skip", fmt.Sprint(skip))
	}

	rawURL := c.apiURL(resource)
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}

	data, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decodificar colección %s: %w", resource, err)
	}
	return out.Value, nil
}

// GetProducts lista items del catálogo de BC, con $filter OData opcional.
func (c *Client) GetProducts(ctx context.Context, filter string, top, skip int) ([]map[string]any, error) {
	return c.collection(ctx, "/items", filter, top, skip)
}

// GetCustomers lista clientes de BC, con $filter OData opcional.
func (c *Client) GetCustomers(ctx context.Context, filter string, top, skip int) ([]map[string]any, error) {
	return c.collection(ctx, "/customers", filter, top, skip)
}

// TestConnection verifica credenciales y acceso listando las compañías del
// tenant. Todos los fallos se devuelven dentro del resultado, nunca como error.
func (c *Client) TestConnection(ctx context.Context) *ConnectionResult {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &ConnectionResult{Success: false, Error: err.Error()}
	}

	rawURL := fmt.Sprintf("%s/%s/api/v2.0/companies", c.cfg.BaseURL, c.cfg.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &ConnectionResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &ConnectionResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return &ConnectionResult{
			Success: false,
			Error:   fmt.Sprintf("Business Central respondió %d: %s", resp.StatusCode, string(data)),
		}
	}

	var out struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return &ConnectionResult{Success: false, Error: "respuesta de compañías malformada"}
	}

	return &ConnectionResult{
		Success:   true,
		Message:   "conexión con Business Central verificada",
		Companies: out.Value,
	}
}
