package trades

import (
	tradesvc "folio-backend/internal/application/trades"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *tradesvc.Service
}

// CreateTrade POST /api/v1/trades — the trade admission path.
func (h *Handlers) CreateTrade(c *fiber.Ctx) error {
	var body struct {
		SecurityID string          `json:"security_id"`
		Category   string          `json:"category"`
		Quantity   int64           `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.SecurityID == "" || body.Category == "" {
		return response.Error(c, "security_id and category are required", 400, nil)
	}
	securityID, err := uuid.Parse(body.SecurityID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for security_id", 400, nil)
	}

	trade, err := h.Service.CreateTrade(c.Context(), tradesvc.CreateTradeInput{
		SecurityID: securityID,
		Category:   body.Category,
		Quantity:   body.Quantity,
		Price:      body.Price,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Trade created successfully", trade)
}

// ListTrades GET /api/v1/trades?security_id=
func (h *Handlers) ListTrades(c *fiber.Ctx) error {
	var securityID *uuid.UUID
	if raw := c.Query("security_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for security_id", 400, nil)
		}
		securityID = &id
	}

	trades, err := h.Service.ListTrades(c.Context(), securityID)
	if err != nil {
		return err
	}
	return response.Success(c, "Trades retrieved successfully", trades)
}

// GetTrade GET /api/v1/trades/:id
func (h *Handlers) GetTrade(c *fiber.Ctx) error {
	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for trade id", 400, nil)
	}

	trade, err := h.Service.GetTrade(c.Context(), tradeID)
	if err != nil {
		return err
	}
	return response.Success(c, "Trade retrieved successfully", trade)
}
