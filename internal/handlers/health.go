package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	cache Pinger
}

func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	services := fiber.Map{"database": "connected"}
	status := "ok"

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			services["redis"] = "unreachable"
			status = "degraded"
		} else {
			services["redis"] = "connected"
		}
	}

	return c.JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}
