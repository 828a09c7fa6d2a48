package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrSecurityNotFound = errors.New("Security not found")
	ErrTradeNotFound    = errors.New("Trade not found")
)

// FieldConstraintError reports a quantity/price/category value outside its
// declared bounds. Rejected before the admission validator runs.
type FieldConstraintError struct {
	Field  string
	Reason string
}

func (e *FieldConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InsufficientQuantityError rejects a sell exceeding the available position.
// Available carries the computed bought-minus-sold quantity for user feedback.
type InsufficientQuantityError struct {
	Available int64
}

func (e *InsufficientQuantityError) Error() string {
	if e.Available == 0 {
		return "no quantity available to sell"
	}
	return fmt.Sprintf("sell quantity exceeds available quantity (%d)", e.Available)
}

// UniquenessError reports a duplicate value for a field that must be unique
// among active records (security symbol).
type UniquenessError struct {
	Field string
	Value string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// AggregationInconsistencyError is a data-integrity fault found while
// aggregating holdings: a negative net position or a malformed trade
// category. Never coerced; logged and surfaced to the caller.
type AggregationInconsistencyError struct {
	SecurityID uuid.UUID
	Reason     string
}

func (e *AggregationInconsistencyError) Error() string {
	return fmt.Sprintf("aggregation inconsistency for security %s: %s", e.SecurityID, e.Reason)
}
