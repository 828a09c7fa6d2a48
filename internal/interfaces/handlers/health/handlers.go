package health

import (
	healthsvc "folio-backend/internal/health"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *healthsvc.Service
}

// JSON GET /health
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(h.Service.Collect(c.Context()))
}
