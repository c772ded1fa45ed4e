package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-central-api/internal/application/auth"
	"github.com/jhoicas/pos-central-api/internal/application/catalog"
	"github.com/jhoicas/pos-central-api/internal/application/sales"
	"github.com/jhoicas/pos-central-api/internal/domain/repository"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-central-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-central-api/internal/interfaces/http"
	"github.com/jhoicas/pos-central-api/pkg/config"
	"github.com/jhoicas/pos-central-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Persistencia: PostgreSQL si hay DATABASE_URL, memoria en caso contrario.
	var userRepo repository.UserRepository
	var orderRepo repository.SalesOrderRepository
	if cfg.DB.Configured() {
		pool, err := postgres.NewPool(context.Background(), cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		userRepo = postgres.NewUserRepository(pool)
		orderRepo = postgres.NewSalesOrderRepository(pool)
		log.Info().Msg("persistencia en PostgreSQL")
	} else {
		userRepo = memory.NewUserRepository()
		orderRepo = memory.NewSalesOrderRepository()
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	}

	bcClient := businesscentral.New(businesscentral.Config{
		BaseURL:      cfg.BC.BaseURL,
		TenantID:     cfg.BC.TenantID,
		ClientID:     cfg.BC.ClientID,
		ClientSecret: cfg.BC.ClientSecret,
		CompanyID:    cfg.BC.CompanyID,
		TokenURL:     cfg.BC.TokenURL,
	})
	if !cfg.BC.Configured() {
		log.Warn().Msg("Business Central sin configurar: el espejo de órdenes fallará")
	}

	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	authUC := auth.NewUseCase(userRepo, cfg.JWT)
	salesUC := sales.NewUseCase(orderRepo, bcClient, receipts)
	catalogUC := catalog.NewUseCase(bcClient)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.Origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Rate.MaxRequests,
		Expiration: time.Duration(cfg.Rate.WindowMinutes) * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "RATE_LIMITED",
				"message": "demasiadas peticiones, intenta más tarde",
			})
		},
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    fmt.Sprintf("%s API", cfg.App.Name),
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Cfg:       cfg,
		AuthUC:    authUC,
		SalesUC:   salesUC,
		CatalogUC: catalogUC,
		Users:     userRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
