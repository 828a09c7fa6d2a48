package trades

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"folio-backend/internal/domain"
	"folio-backend/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns the trade ledger: admission of new trades and reads over the
// ordered per-security trade history.
type Service struct {
	DB    *gorm.DB
	Cache *cache.HoldingsCache

	// admission is serialized per security so two concurrent sells can
	// never both observe the same available quantity. Postgres adds a row
	// lock on the security for multi-instance deployments.
	locks sync.Map
}

// CreateTradeInput is the admission payload.
type CreateTradeInput struct {
	SecurityID uuid.UUID
	Category   string
	Quantity   int64
	Price      decimal.Decimal
}

// quantitySums holds the bought/sold aggregates for one security.
type quantitySums struct {
	Bought int64
	Sold   int64
}

func (s *Service) securityLock(id uuid.UUID) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// lockSecurity loads the active security, taking a row lock on Postgres.
// SQLite has no FOR UPDATE; its writes serialize on the connection anyway.
func lockSecurity(tx *gorm.DB, id uuid.UUID) (*domain.Security, error) {
	q := tx.Where("security_id = ? AND active = ?", id, true)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var sec domain.Security
	if err := q.First(&sec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSecurityNotFound
		}
		return nil, err
	}
	return &sec, nil
}

// sumQuantities computes the bought and sold totals for a security in one
// aggregate query over its active trades.
func sumQuantities(tx *gorm.DB, securityID uuid.UUID) (quantitySums, error) {
	var sums quantitySums
	err := tx.Model(&domain.Trade{}).
		Select("COALESCE(SUM(CASE WHEN category = ? THEN quantity ELSE 0 END), 0) AS bought, "+
			"COALESCE(SUM(CASE WHEN category = ? THEN quantity ELSE 0 END), 0) AS sold",
			domain.CategoryBought, domain.CategorySold).
		Where("security_id = ? AND active = ?", securityID, true).
		Scan(&sums).Error
	return sums, err
}

// validateFields enforces the field-level bounds before the admission
// validator runs.
func validateFields(in CreateTradeInput) error {
	if in.SecurityID == uuid.Nil {
		return &domain.FieldConstraintError{Field: "security_id", Reason: "is required"}
	}
	if in.Category != domain.CategoryBought && in.Category != domain.CategorySold {
		return &domain.FieldConstraintError{Field: "category", Reason: "must be \"bought\" or \"sold\""}
	}
	if in.Quantity < domain.MinTradeQuantity || in.Quantity > domain.MaxTradeQuantity {
		return &domain.FieldConstraintError{Field: "quantity", Reason: "must be between 1 and 9999999"}
	}
	if in.Price.IsNegative() {
		return &domain.FieldConstraintError{Field: "price", Reason: "must not be negative"}
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return &domain.FieldConstraintError{Field: "price", Reason: "must have at most 2 decimal places"}
	}
	return nil
}

// CreateTrade admits a trade: field constraints, then the sell-quantity check
// against the same snapshot the append commits into, then the trade and its
// history entry written as one atomic unit.
func (s *Service) CreateTrade(ctx context.Context, in CreateTradeInput) (*domain.Trade, error) {
	if err := validateFields(in); err != nil {
		return nil, err
	}

	mu := s.securityLock(in.SecurityID)
	mu.Lock()
	defer mu.Unlock()

	var trade domain.Trade
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockSecurity(tx, in.SecurityID); err != nil {
			return err
		}

		if in.Category == domain.CategorySold {
			sums, err := sumQuantities(tx, in.SecurityID)
			if err != nil {
				return err
			}
			available := sums.Bought - sums.Sold
			if available == 0 || in.Quantity > available {
				return &domain.InsufficientQuantityError{Available: available}
			}
		}

		trade = domain.Trade{
			SecurityID: in.SecurityID,
			Category:   in.Category,
			Quantity:   in.Quantity,
			Price:      in.Price,
			Active:     true,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		snapshot, err := json.Marshal(trade)
		if err != nil {
			return err
		}
		entry := domain.TradeHistoryEntry{
			TradeID:    trade.TradeID,
			SecurityID: trade.SecurityID,
			Category:   trade.Category,
			Quantity:   trade.Quantity,
			Price:      trade.Price,
			Snapshot:   datatypes.JSON(snapshot),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	return &trade, nil
}

// ListTrades returns active trades in creation order, optionally scoped to
// one security.
func (s *Service) ListTrades(ctx context.Context, securityID *uuid.UUID) ([]domain.Trade, error) {
	q := s.DB.WithContext(ctx).Where("active = ?", true).Order("created_at ASC")
	if securityID != nil {
		var sec domain.Security
		if err := s.DB.WithContext(ctx).
			Where("security_id = ? AND active = ?", *securityID, true).
			First(&sec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrSecurityNotFound
			}
			return nil, err
		}
		q = q.Where("security_id = ?", *securityID)
	}
	var trades []domain.Trade
	if err := q.Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// GetTrade returns one active trade by id.
func (s *Service) GetTrade(ctx context.Context, tradeID uuid.UUID) (*domain.Trade, error) {
	var trade domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("trade_id = ? AND active = ?", tradeID, true).
		First(&trade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}
