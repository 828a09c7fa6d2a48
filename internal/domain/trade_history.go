package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TradeHistoryEntry is the append-only audit copy of an admitted trade.
// Exactly one entry exists per trade; it is written in the same transaction
// as the trade and never mutated or deleted afterwards. Category, quantity
// and price are duplicated at admission time; Snapshot carries the full
// trade payload as written.
type TradeHistoryEntry struct {
	HistoryID  uuid.UUID       `gorm:"column:history_id;type:uuid;primaryKey" json:"history_id"`
	TradeID    uuid.UUID       `gorm:"column:trade_id;type:uuid;not null;index" json:"trade_id"`
	SecurityID uuid.UUID       `gorm:"column:security_id;type:uuid;not null;index" json:"security_id"`
	Category   string          `gorm:"column:category;type:varchar(10);not null" json:"category"`
	Quantity   int64           `gorm:"column:quantity;type:bigint;not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(8,2);not null" json:"price"`
	Snapshot   datatypes.JSON  `gorm:"column:snapshot" json:"snapshot"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (TradeHistoryEntry) TableName() string {
	return "trade_history"
}

func (e *TradeHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.HistoryID == uuid.Nil {
		e.HistoryID = uuid.New()
	}
	return nil
}
