package businesscentral_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
)

// newTokenServer simula el endpoint OAuth2 y cuenta cuántas veces se pidió token.
func newTokenServer(t *testing.T, expiresIn int64, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "client-1", r.FormValue("client_id"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-abc",
			"expires_in":   expiresIn,
		})
	}))
}

func newClient(apiURL, tokenURL string) *businesscentral.Client {
	return businesscentral.New(businesscentral.Config{
		BaseURL:      apiURL,
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		CompanyID:    "company-1",
		TokenURL:     tokenURL,
	})
}

func testOrder() *entity.SalesOrder {
	return &entity.SalesOrder{
		ID:           "local-1",
		OrderNumber:  "SO-100",
		CustomerID:   "C-001",
		CustomerName: "Cliente Uno",
		Items: []entity.SalesOrderItem{{
			ProductID:   "ITEM-1",
			ProductName: "Tornillo",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromFloat(1.50),
			LineTotal:   decimal.NewFromInt(3),
		}},
		TotalAmount: decimal.NewFromInt(3),
	}
}

func TestToken_SeCacheaEntreLlamadas(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, 3600, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{}})
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	_, err := c.GetProducts(context.Background(), "", 0, 0)
	require.NoError(t, err)
	_, err = c.GetProducts(context.Background(), "", 0, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&tokenCalls),
		"el token vigente debe reutilizarse sin volver a pedir otro")
}

func TestToken_SeRenuevaAlExpirar(t *testing.T) {
	var tokenCalls int64
	// expires_in=0: el token nace expirado (el chequeo es now < expiry estricto).
	tokenSrv := newTokenServer(t, 0, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{}})
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	_, err := c.GetProducts(context.Background(), "", 0, 0)
	require.NoError(t, err)
	_, err = c.GetProducts(context.Background(), "", 0, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&tokenCalls),
		"un token expirado debe renovarse en la siguiente llamada")
}

func TestToken_FalloDeAutenticacion(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer tokenSrv.Close()

	c := newClient("http://127.0.0.1:0", tokenSrv.URL)
	_, err := c.GetProducts(context.Background(), "", 0, 0)
	assert.ErrorIs(t, err, businesscentral.ErrAuth)
}

func TestCreateSalesOrder_PayloadYRespuesta(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, 3600, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tenant-1/company-1/api/v2.0/salesOrders", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "C-001", payload["customerNumber"])
		assert.Equal(t, "SO-100", payload["externalDocumentNumber"])
		assert.Equal(t, "USD", payload["currencyCode"])
		assert.Equal(t, "NET30", payload["paymentTermsCode"])

		lines := payload["salesOrderLines"].([]any)
		require.Len(t, lines, 1)
		line := lines[0].(map[string]any)
		assert.Equal(t, "ITEM-1", line["itemId"])
		assert.Equal(t, 2.0, line["quantity"])
		// Sin description propia, la línea usa el nombre del producto.
		assert.Equal(t, "Tornillo", line["description"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "bc-uuid-1",
			"number": "101001",
			"status": "Draft",
		})
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	result, err := c.CreateSalesOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "bc-uuid-1", result.BCOrderID)
	assert.Equal(t, "101001", result.OrderNumber)
	assert.Equal(t, "Draft", result.Status)
}

func TestCreateSalesOrder_ErrorIncluyeCuerpo(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, 3600, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BadRequest","message":"customerNumber inexistente"}}`))
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	_, err := c.CreateSalesOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "customerNumber inexistente",
		"el detalle OData del ERP debe viajar en el error")
}

func TestGetProducts_DesempaquetaValue(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, 3600, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant-1/company-1/api/v2.0/items", r.URL.Path)
		assert.Equal(t, "contains(displayName,'tor') or contains(number,'tor')", r.URL.Query().Get("$filter"))
		assert.Equal(t, "5", r.URL.Query().Get("$top"))
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{"number": "ITEM-1", "displayName": "Tornillo"},
				{"number": "ITEM-2", "displayName": "Torniquete"},
			},
		})
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	items, err := c.GetProducts(context.Background(), businesscentral.SearchFilter("tor"), 5, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ITEM-1", items[0]["number"])
}

func TestTestConnection_FalloNoEsError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer tokenSrv.Close()

	c := newClient("http://127.0.0.1:0", tokenSrv.URL)
	result := c.TestConnection(context.Background())
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestTestConnection_ListaCompanias(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, 3600, &tokenCalls)
	defer tokenSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant-1/api/v2.0/companies", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{{"id": "company-1", "name": "CRONUS"}},
		})
	}))
	defer api.Close()

	c := newClient(api.URL, tokenSrv.URL)
	result := c.TestConnection(context.Background())
	require.True(t, result.Success)
	require.Len(t, result.Companies, 1)
	assert.Equal(t, "CRONUS", result.Companies[0]["name"])
}
