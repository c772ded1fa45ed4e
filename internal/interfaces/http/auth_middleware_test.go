package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-central-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-central-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "pos-central-test"
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware +
// RequireRole y un handler dummy que responde 200 si pasa los middlewares.
func buildTestApp(users *memory.UserRepo, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret, users)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "username": apphttp.GetUser(c).Username})
	})
	app.Get("/protected", handlers...)
	return app
}

// tokenFor genera un access token para un usuario sembrado del repositorio.
func tokenFor(t *testing.T, users *memory.UserRepo, username string) string {
	t.Helper()
	u, err := users.GetByUsername(username)
	require.NoError(t, err)
	require.NotNil(t, u)
	tok, err := pkgjwt.GenerateAccess(testJWTSecret, u.ID, u.Role, testIssuer, 24)
	require.NoError(t, err)
	return "Bearer " + tok
}

// doRequest lanza GET /protected con el header dado y decodifica el error si lo hay.
func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAuthMiddleware_SinToken(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users)

	status, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["error"])
}

func TestAuthMiddleware_TokenMalformado(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users)

	status, body := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["error"])
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users)

	u, err := users.GetByUsername("admin")
	require.NoError(t, err)
	expired, err := pkgjwt.GenerateAccess(testJWTSecret, u.ID, u.Role, testIssuer, -1)
	require.NoError(t, err)

	status, body := doRequest(t, app, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", body["error"],
		"un token expirado se distingue de uno inválido")
}

// Un token válido de un usuario dado de baja se rechaza: la baja revoca el
// acceso de inmediato aunque el token siga vigente.
func TestAuthMiddleware_UsuarioInactivo(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users)

	token := tokenFor(t, users, "cashier")
	u, err := users.GetByUsername("cashier")
	require.NoError(t, err)
	require.NoError(t, users.Deactivate(u.ID))

	status, body := doRequest(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "USER_INACTIVE", body["error"])
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users)

	status, body := doRequest(t, app, tokenFor(t, users, "admin"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["username"])
}

func TestRequireRole_AdminAccede(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users, entity.RoleAdmin)

	status, _ := doRequest(t, app, tokenFor(t, users, "admin"))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireRole_CashierRechazado(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users, entity.RoleAdmin)

	status, body := doRequest(t, app, tokenFor(t, users, "cashier"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["error"])
}

func TestRequireRole_VariosRoles(t *testing.T) {
	users := memory.NewUserRepository()
	app := buildTestApp(users, entity.RoleAdmin, entity.RoleCashier)

	status, _ := doRequest(t, app, tokenFor(t, users, "cashier"))
	assert.Equal(t, http.StatusOK, status)
}
