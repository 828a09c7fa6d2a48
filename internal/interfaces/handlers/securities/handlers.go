package securities

import (
	secsvc "folio-backend/internal/application/securities"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *secsvc.Service
}

// CreateSecurity POST /api/v1/securities
func (h *Handlers) CreateSecurity(c *fiber.Ctx) error {
	var body secsvc.CreateSecurityInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	sec, err := h.Service.CreateSecurity(c.Context(), body)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Security created successfully", sec)
}

// ListSecurities GET /api/v1/securities
func (h *Handlers) ListSecurities(c *fiber.Ctx) error {
	listings, err := h.Service.ListSecurities(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Securities retrieved successfully", listings)
}

// GetSecurity GET /api/v1/securities/:id
func (h *Handlers) GetSecurity(c *fiber.Ctx) error {
	securityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for security id", 400, nil)
	}

	sec, err := h.Service.GetSecurity(c.Context(), securityID)
	if err != nil {
		return err
	}
	return response.Success(c, "Security retrieved successfully", sec)
}

// UpdateSecurity PATCH /api/v1/securities/:id
func (h *Handlers) UpdateSecurity(c *fiber.Ctx) error {
	securityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for security id", 400, nil)
	}
	var body secsvc.UpdateSecurityInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.Name == nil && body.Symbol == nil {
		return response.Error(c, "Nothing to update", 400, nil)
	}

	sec, err := h.Service.UpdateSecurity(c.Context(), securityID, body)
	if err != nil {
		return err
	}
	return response.Success(c, "Security updated successfully", sec)
}

// DeactivateSecurity DELETE /api/v1/securities/:id — soft delete, cascades
// to the security's trades.
func (h *Handlers) DeactivateSecurity(c *fiber.Ctx) error {
	securityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for security id", 400, nil)
	}

	if err := h.Service.DeactivateSecurity(c.Context(), securityID); err != nil {
		return err
	}
	return response.Success(c, "Security deactivated successfully", fiber.Map{
		"security_id": securityID,
	})
}
