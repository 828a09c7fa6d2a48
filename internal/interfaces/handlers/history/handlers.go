package history

import (
	histsvc "folio-backend/internal/application/history"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *histsvc.Service
}

// ListHistory GET /api/v1/history?security_id= — audit entries, most recent first.
func (h *Handlers) ListHistory(c *fiber.Ctx) error {
	var securityID *uuid.UUID
	if raw := c.Query("security_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for security_id", 400, nil)
		}
		securityID = &id
	}

	entries, err := h.Service.ListHistory(c.Context(), securityID)
	if err != nil {
		return err
	}
	return response.Success(c, "Trade history retrieved successfully", entries)
}
