package returns

import (
	retsvc "folio-backend/internal/application/returns"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *retsvc.Service
	// DefaultReferencePrice is used when the request does not supply one.
	DefaultReferencePrice decimal.Decimal
}

// ListReturns GET /api/v1/returns?reference_price=
func (h *Handlers) ListReturns(c *fiber.Ctx) error {
	referencePrice := h.DefaultReferencePrice
	if raw := c.Query("reference_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return response.Error(c, "Invalid reference_price", 400, nil)
		}
		referencePrice = parsed
	}

	returns, err := h.Service.ListReturns(c.Context(), referencePrice)
	if err != nil {
		return err
	}
	return response.Success(c, "Returns retrieved successfully", returns)
}
