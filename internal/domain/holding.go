package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingSnapshot is the derived per-security position produced by the
// holdings aggregation pass. It is never persisted. AvgBuyPrice is nil when
// the security has no bought trades; callers must treat that distinctly
// from 0.00.
type HoldingSnapshot struct {
	SecurityID     uuid.UUID
	Name           string
	Symbol         string
	BoughtQuantity int64
	SoldQuantity   int64
	FinalQuantity  int64
	// CostNumerator is the exact running sum of price*quantity over bought
	// trades; AvgBuyPrice = CostNumerator / BoughtQuantity.
	CostNumerator decimal.Decimal
	AvgBuyPrice   *decimal.Decimal
}

// Holding is the published view of a HoldingSnapshot. AvgBuyPrice is the
// 2-decimal quotient when evaluated, or the raw "numerator/denominator"
// pair when not; absent either way when there are no bought trades.
type Holding struct {
	SecurityID     uuid.UUID `json:"security_id"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	BoughtQuantity int64     `json:"bought_quantity"`
	SoldQuantity   int64     `json:"sold_quantity"`
	FinalQuantity  int64     `json:"final_quantity"`
	AvgBuyPrice    *string   `json:"avg_buy_price"`
}

// Return is the derived unrealized gain/loss of a security's net position
// against a reference price. Never persisted.
type Return struct {
	SecurityID       uuid.UUID `json:"security_id"`
	Name             string    `json:"name"`
	Symbol           string    `json:"symbol"`
	CumulativeReturn string    `json:"cumulative_return"`
}
