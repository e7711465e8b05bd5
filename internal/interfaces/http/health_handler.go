package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
)

// Pinger lo implementan los stores (pool de PostgreSQL o memoria).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde GET /health.
type HealthHandler struct {
	store   Pinger
	service string
}

// NewHealthHandler construye el handler; store puede ser nil.
func NewHealthHandler(store Pinger, service string) *HealthHandler {
	return &HealthHandler{store: store, service: service}
}

// Check godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Service: h.service})
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Service: h.service})
}
