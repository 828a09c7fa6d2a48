package returns

import (
	"context"

	"folio-backend/internal/application/holdings"
	"folio-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Service computes cumulative unrealized returns from holdings snapshots and
// an externally supplied reference price.
type Service struct {
	Holdings *holdings.Service
}

// ListReturns reports (referencePrice - avgBuyPrice) * finalQuantity per
// security, rounded to 2 decimals at output. A security without bought
// trades has no average and returns 0.00.
func (s *Service) ListReturns(ctx context.Context, referencePrice decimal.Decimal) ([]domain.Return, error) {
	snapshots, err := s.Holdings.Aggregate(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Return, 0, len(snapshots))
	for _, snap := range snapshots {
		cumulative := decimal.Zero
		if snap.AvgBuyPrice != nil {
			cumulative = referencePrice.
				Sub(*snap.AvgBuyPrice).
				Mul(decimal.NewFromInt(snap.FinalQuantity))
		}
		out = append(out, domain.Return{
			SecurityID:       snap.SecurityID,
			Name:             snap.Name,
			Symbol:           snap.Symbol,
			CumulativeReturn: cumulative.Round(2).StringFixed(2),
		})
	}
	return out, nil
}
