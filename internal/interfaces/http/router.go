package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/auth"
	"github.com/jhoicas/pos-central-api/internal/application/catalog"
	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/application/sales"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
	"github.com/jhoicas/pos-central-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Cfg       *config.Config
	AuthUC    *auth.UseCase
	SalesUC   *sales.UseCase
	CatalogUC *catalog.UseCase
	Users     repository.UserRepository
}

// Router registra las rutas de la API bajo el prefijo configurado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group(deps.Cfg.API.BasePath())

	requireAuth := AuthMiddleware(deps.Cfg.JWT.Secret, deps.Users)
	adminOnly := RequireRole(entity.RoleAdmin)
	sellers := RequireRole(entity.RoleAdmin, entity.RoleCashier, entity.RoleManager)

	// Health (público)
	health := NewHealthHandler(deps.Cfg.App.Name, deps.Cfg.App.Env,
		deps.Cfg.BC.Configured(), deps.Cfg.DB.Configured())
	api.Get("/health", health.Health)
	api.Get("/health/detailed", health.Detailed)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.Refresh)
	authGroup.Post("/register", requireAuth, adminOnly, authHandler.Register)
	authGroup.Get("/profile", requireAuth, authHandler.Profile)
	authGroup.Put("/profile", requireAuth, authHandler.UpdateProfile)
	authGroup.Put("/change-password", requireAuth, authHandler.ChangePassword)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Usuarios (solo admin)
	userHandler := NewUserHandler(deps.AuthUC)
	users := authGroup.Group("/users", requireAuth, adminOnly)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Órdenes de venta. Las rutas fijas van antes que /:id.
	orderHandler := NewSalesOrderHandler(deps.SalesUC)
	orders := api.Group("/sales-orders", requireAuth, sellers)
	orders.Get("/stats", orderHandler.Stats)
	orders.Get("/bc-test", adminOnly, orderHandler.TestBC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Patch("/:id", orderHandler.Update)
	orders.Delete("/:id", adminOnly, orderHandler.Delete)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Catálogo de Business Central (solo lectura). /search antes que /:id.
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := api.Group("/products", requireAuth, sellers)
	products.Get("/search/:term", catalogHandler.SearchProducts)
	products.Get("/", catalogHandler.Products)
	products.Get("/:id", catalogHandler.ProductByID)

	customers := api.Group("/customers", requireAuth, sellers)
	customers.Get("/search/:term", catalogHandler.SearchCustomers)
	customers.Get("/", catalogHandler.Customers)
	customers.Get("/:id", catalogHandler.CustomerByID)

	// Banner raíz y 404 con el sobre estándar.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(dto.OK(fiber.Map{
			"service": deps.Cfg.App.Name,
			"version": deps.Cfg.API.Version,
			"docs":    "/docs",
		}))
	})
	app.Use(func(c *fiber.Ctx) error {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "ruta no encontrada")
	})
}
