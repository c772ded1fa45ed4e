package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-central-api/internal/application/dto"
)

// HealthHandler endpoints de salud del servicio.
type HealthHandler struct {
	appName      string
	env          string
	bcConfigured bool
	dbConfigured bool
	startedAt    time.Time
}

// NewHealthHandler construye el handler de salud.
func NewHealthHandler(appName, env string, bcConfigured, dbConfigured bool) *HealthHandler {
	return &HealthHandler{
		appName:      appName,
		env:          env,
		bcConfigured: bcConfigured,
		dbConfigured: dbConfigured,
		startedAt:    time.Now(),
	}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.OK(fiber.Map{
		"status":    "ok",
		"service":   h.appName,
		"timestamp": time.Now().UTC(),
	}))
}

// Detailed godoc
// @Summary      Estado detallado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/v1/health/detailed [get]
func (h *HealthHandler) Detailed(c *fiber.Ctx) error {
	return c.JSON(dto.OK(fiber.Map{
		"status":      "ok",
		"service":     h.appName,
		"environment": h.env,
		"uptime":      time.Since(h.startedAt).String(),
		"timestamp":   time.Now().UTC(),
		"integrations": fiber.Map{
			"businessCentral": fiber.Map{"configured": h.bcConfigured},
			"postgres":        fiber.Map{"configured": h.dbConfigured},
		},
	}))
}
