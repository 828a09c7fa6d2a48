package history

import (
	"context"

	"folio-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reads the append-only trade audit trail. Writes happen inside the
// trade admission transaction; this side is read-only.
type Service struct {
	DB *gorm.DB
}

// ListHistory returns history entries most recent first, optionally scoped
// to one security. Entries survive security deactivation.
func (s *Service) ListHistory(ctx context.Context, securityID *uuid.UUID) ([]domain.TradeHistoryEntry, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC, history_id DESC")
	if securityID != nil {
		q = q.Where("security_id = ?", *securityID)
	}
	var entries []domain.TradeHistoryEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
