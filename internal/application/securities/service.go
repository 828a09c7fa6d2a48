package securities

import (
	"context"
	"errors"
	"strings"

	"folio-backend/internal/domain"
	"folio-backend/internal/infrastructure/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates security master-data operations.
type Service struct {
	DB    *gorm.DB
	Cache *cache.HoldingsCache
}

// CreateSecurityInput is the creation payload.
type CreateSecurityInput struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// UpdateSecurityInput carries optional fields for a partial update.
type UpdateSecurityInput struct {
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
}

// SecurityListing is a security plus its active trade count.
type SecurityListing struct {
	domain.Security
	NumberOfTrades int64 `json:"number_of_trades"`
}

// symbolTaken reports whether another active security already uses symbol.
// Symbol uniqueness is case-sensitive.
func symbolTaken(tx *gorm.DB, symbol string, exclude *uuid.UUID) (bool, error) {
	q := tx.Model(&domain.Security{}).Where("symbol = ? AND active = ?", symbol, true)
	if exclude != nil {
		q = q.Where("security_id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSecurity creates a security after checking symbol uniqueness among
// active securities, inside one transaction.
func (s *Service) CreateSecurity(ctx context.Context, in CreateSecurityInput) (*domain.Security, error) {
	name := strings.TrimSpace(in.Name)
	symbol := strings.TrimSpace(in.Symbol)
	if name == "" {
		return nil, &domain.FieldConstraintError{Field: "name", Reason: "is required"}
	}
	if symbol == "" {
		return nil, &domain.FieldConstraintError{Field: "symbol", Reason: "is required"}
	}

	sec := &domain.Security{Name: name, Symbol: symbol, Active: true}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := symbolTaken(tx, symbol, nil)
		if err != nil {
			return err
		}
		if taken {
			return &domain.UniquenessError{Field: "symbol", Value: symbol}
		}
		return tx.Create(sec).Error
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// ListSecurities returns active securities with their active trade counts.
func (s *Service) ListSecurities(ctx context.Context) ([]SecurityListing, error) {
	var securities []domain.Security
	if err := s.DB.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&securities).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		SecurityID uuid.UUID
		Count      int64
	}
	var counts []countRow
	if err := s.DB.WithContext(ctx).Model(&domain.Trade{}).
		Select("security_id, COUNT(*) AS count").
		Where("active = ?", true).
		Group("security_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countBySecurity := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countBySecurity[c.SecurityID] = c.Count
	}

	out := make([]SecurityListing, len(securities))
	for i, sec := range securities {
		out[i] = SecurityListing{Security: sec, NumberOfTrades: countBySecurity[sec.SecurityID]}
	}
	return out, nil
}

// GetSecurity returns one active security by id.
func (s *Service) GetSecurity(ctx context.Context, securityID uuid.UUID) (*domain.Security, error) {
	var sec domain.Security
	if err := s.DB.WithContext(ctx).
		Where("security_id = ? AND active = ?", securityID, true).
		First(&sec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSecurityNotFound
		}
		return nil, err
	}
	return &sec, nil
}

// UpdateSecurity applies a partial update to name/symbol, re-checking symbol
// uniqueness in the same transaction.
func (s *Service) UpdateSecurity(ctx context.Context, securityID uuid.UUID, in UpdateSecurityInput) (*domain.Security, error) {
	var sec domain.Security
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("security_id = ? AND active = ?", securityID, true).
			First(&sec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSecurityNotFound
			}
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return &domain.FieldConstraintError{Field: "name", Reason: "must not be empty"}
			}
			sec.Name = name
		}
		if in.Symbol != nil {
			symbol := strings.TrimSpace(*in.Symbol)
			if symbol == "" {
				return &domain.FieldConstraintError{Field: "symbol", Reason: "must not be empty"}
			}
			taken, err := symbolTaken(tx, symbol, &securityID)
			if err != nil {
				return err
			}
			if taken {
				return &domain.UniquenessError{Field: "symbol", Value: symbol}
			}
			sec.Symbol = symbol
		}
		return tx.Save(&sec).Error
	})
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return &sec, nil
}

// DeactivateSecurity soft-deletes a security and cascades to its trades, so
// they disappear from active views in one atomic step. History entries are
// untouched; the audit trail is append-only.
func (s *Service) DeactivateSecurity(ctx context.Context, securityID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Security{}).
			Where("security_id = ? AND active = ?", securityID, true).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrSecurityNotFound
		}
		return tx.Model(&domain.Trade{}).
			Where("security_id = ? AND active = ?", securityID, true).
			Update("active", false).Error
	})
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}
