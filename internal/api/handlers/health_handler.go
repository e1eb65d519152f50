package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	records int
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthHandler(records int) *HealthHandler {
	return &HealthHandler{
		records: records,
		checks:  make(map[string]Check),
		timeout: 2 * time.Second,
	}
}

// AddCheck registers a readiness check under name.
func (h *HealthHandler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "portfolio-assistant",
		"records": h.records,
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	results := make(fiber.Map, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	ready := status == fiber.StatusOK
	return c.Status(status).JSON(fiber.Map{
		"ready":  ready,
		"checks": results,
	})
}
