package holdings

import (
	holdsvc "folio-backend/internal/application/holdings"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *holdsvc.Service
}

// ListHoldings GET /api/v1/holdings?security_id=&evaluated=0|1
// evaluated defaults to true; evaluated=0 returns the raw
// numerator/denominator form of the average buy price.
func (h *Handlers) ListHoldings(c *fiber.Ctx) error {
	var securityID *uuid.UUID
	if raw := c.Query("security_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for security_id", 400, nil)
		}
		securityID = &id
	}

	evaluated := true
	switch c.Query("evaluated", "1") {
	case "0", "false":
		evaluated = false
	case "1", "true":
		evaluated = true
	default:
		return response.Error(c, "evaluated must be 0 or 1", 400, nil)
	}

	holdings, err := h.Service.ListHoldings(c.Context(), securityID, evaluated)
	if err != nil {
		return err
	}
	return response.Success(c, "Holdings retrieved successfully", holdings)
}
