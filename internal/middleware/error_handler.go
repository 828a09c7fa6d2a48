package middleware

import (
	"errors"

	"folio-backend/internal/domain"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. It maps the domain error
// taxonomy to HTTP statuses and renders the standard error format, so
// handlers return errors instead of building responses themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fieldErr *domain.FieldConstraintError
	if errors.As(err, &fieldErr) {
		return response.Error(c, fieldErr.Error(), fiber.StatusBadRequest, fiber.Map{
			"field":  fieldErr.Field,
			"reason": fieldErr.Reason,
		})
	}

	var qtyErr *domain.InsufficientQuantityError
	if errors.As(err, &qtyErr) {
		return response.Error(c, qtyErr.Error(), fiber.StatusBadRequest, fiber.Map{
			"available_quantity": qtyErr.Available,
		})
	}

	var uniqueErr *domain.UniquenessError
	if errors.As(err, &uniqueErr) {
		return response.Error(c, uniqueErr.Error(), fiber.StatusConflict, fiber.Map{
			"field": uniqueErr.Field,
			"value": uniqueErr.Value,
		})
	}

	if errors.Is(err, domain.ErrSecurityNotFound) || errors.Is(err, domain.ErrTradeNotFound) {
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	}

	var aggErr *domain.AggregationInconsistencyError
	if errors.As(err, &aggErr) {
		return response.Error(c, aggErr.Error(), fiber.StatusInternalServerError, fiber.Map{
			"security_id": aggErr.SecurityID,
			"reason":      aggErr.Reason,
		})
	}

	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
