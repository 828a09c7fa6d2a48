package holdings

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"folio-backend/internal/domain"
	"folio-backend/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service folds each security's trade ledger into a holding: net position
// and quantity-weighted average buy price.
type Service struct {
	DB    *gorm.DB
	Cache *cache.HoldingsCache
}

// accumulator is the running per-security state of the aggregation pass.
// The cost numerator stays an exact decimal for the whole fold; only the
// published average is rounded.
type accumulator struct {
	snap domain.HoldingSnapshot
}

// tradeRow is the flat row the aggregation query scans into. Price is read
// as text and parsed exactly; it never passes through a float.
type tradeRow struct {
	SecurityID uuid.UUID
	Category   string
	Quantity   int64
	Price      string
}

// Aggregate runs one grouped pass over the active trades of all (or one)
// active securities. Securities without trades still produce a snapshot.
// O(total trades); no state survives between calls.
func (s *Service) Aggregate(ctx context.Context, securityID *uuid.UUID) ([]domain.HoldingSnapshot, error) {
	secQuery := s.DB.WithContext(ctx).Where("active = ?", true).Order("created_at ASC")
	if securityID != nil {
		secQuery = secQuery.Where("security_id = ?", *securityID)
	}
	var securities []domain.Security
	if err := secQuery.Find(&securities).Error; err != nil {
		return nil, err
	}
	if securityID != nil && len(securities) == 0 {
		return nil, domain.ErrSecurityNotFound
	}

	// Get-or-insert accumulators keyed by security id, seeded up front so
	// trade-less securities are reported too.
	accs := make(map[uuid.UUID]*accumulator, len(securities))
	order := make([]uuid.UUID, 0, len(securities))
	for _, sec := range securities {
		accs[sec.SecurityID] = &accumulator{
			snap: domain.HoldingSnapshot{
				SecurityID: sec.SecurityID,
				Name:       sec.Name,
				Symbol:     sec.Symbol,
			},
		}
		order = append(order, sec.SecurityID)
	}

	tradeQuery := s.DB.WithContext(ctx).Model(&domain.Trade{}).
		Select("trades.security_id, trades.category, trades.quantity, trades.price").
		Where("trades.active = ?", true).
		Order("trades.created_at ASC")
	if securityID != nil {
		tradeQuery = tradeQuery.Where("trades.security_id = ?", *securityID)
	}
	var rows []tradeRow
	if err := tradeQuery.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		acc, ok := accs[row.SecurityID]
		if !ok {
			// Trade of an inactive security; cascaded out of active views.
			continue
		}
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return nil, &domain.AggregationInconsistencyError{
				SecurityID: row.SecurityID,
				Reason:     fmt.Sprintf("unreadable price %q", row.Price),
			}
		}
		switch row.Category {
		case domain.CategoryBought:
			acc.snap.BoughtQuantity += row.Quantity
			acc.snap.CostNumerator = acc.snap.CostNumerator.Add(
				price.Mul(decimal.NewFromInt(row.Quantity)))
		case domain.CategorySold:
			acc.snap.SoldQuantity += row.Quantity
		default:
			err := &domain.AggregationInconsistencyError{
				SecurityID: row.SecurityID,
				Reason:     fmt.Sprintf("malformed trade category %q", row.Category),
			}
			log.Error().
				Str("security_id", row.SecurityID.String()).
				Str("category", row.Category).
				Msg("malformed trade category during aggregation")
			return nil, err
		}
	}

	snapshots := make([]domain.HoldingSnapshot, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		acc.snap.FinalQuantity = acc.snap.BoughtQuantity - acc.snap.SoldQuantity
		if acc.snap.FinalQuantity < 0 {
			err := &domain.AggregationInconsistencyError{
				SecurityID: id,
				Reason:     fmt.Sprintf("negative final quantity %d", acc.snap.FinalQuantity),
			}
			log.Error().
				Str("security_id", id.String()).
				Int64("final_quantity", acc.snap.FinalQuantity).
				Msg("negative net position during aggregation")
			return nil, err
		}
		if acc.snap.BoughtQuantity > 0 {
			avg := acc.snap.CostNumerator.
				Div(decimal.NewFromInt(acc.snap.BoughtQuantity)).
				Round(2)
			acc.snap.AvgBuyPrice = &avg
		}
		snapshots = append(snapshots, acc.snap)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Symbol < snapshots[j].Symbol
	})
	return snapshots, nil
}

// ListHoldings publishes the aggregation result. evaluated=true renders the
// 2-decimal average; evaluated=false renders the exact unreduced
// "numerator/denominator" pair instead. Cached per (filter, mode).
func (s *Service) ListHoldings(ctx context.Context, securityID *uuid.UUID, evaluated bool) ([]domain.Holding, error) {
	filter := ""
	if securityID != nil {
		filter = securityID.String()
	}
	if cached, ok := s.Cache.Get(ctx, filter, evaluated); ok {
		return cached, nil
	}

	snapshots, err := s.Aggregate(ctx, securityID)
	if err != nil {
		return nil, err
	}

	holdings := make([]domain.Holding, 0, len(snapshots))
	for _, snap := range snapshots {
		h := domain.Holding{
			SecurityID:     snap.SecurityID,
			Name:           snap.Name,
			Symbol:         snap.Symbol,
			BoughtQuantity: snap.BoughtQuantity,
			SoldQuantity:   snap.SoldQuantity,
			FinalQuantity:  snap.FinalQuantity,
		}
		if snap.AvgBuyPrice != nil {
			var rendered string
			if evaluated {
				rendered = snap.AvgBuyPrice.StringFixed(2)
			} else {
				rendered = snap.CostNumerator.StringFixed(2) + "/" +
					strconv.FormatInt(snap.BoughtQuantity, 10)
			}
			h.AvgBuyPrice = &rendered
		}
		holdings = append(holdings, h)
	}

	s.Cache.Set(ctx, filter, evaluated, holdings)
	return holdings, nil
}
