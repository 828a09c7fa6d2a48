package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategoryBought = "bought"
	CategorySold   = "sold"
)

// Field-level bounds for trade admission.
const (
	MinTradeQuantity int64 = 1
	MaxTradeQuantity int64 = 9999999
)

// Trade is one immutable economic event in a security's ledger. Category,
// security reference, quantity and price never change after admission;
// corrections are compensating trades.
type Trade struct {
	TradeID    uuid.UUID       `gorm:"column:trade_id;type:uuid;primaryKey" json:"trade_id"`
	SecurityID uuid.UUID       `gorm:"column:security_id;type:uuid;not null;index" json:"security_id"`
	Category   string          `gorm:"column:category;type:varchar(10);not null" json:"category"`
	Quantity   int64           `gorm:"column:quantity;type:bigint;not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(8,2);not null" json:"price"`
	Active     bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.TradeID == uuid.Nil {
		t.TradeID = uuid.New()
	}
	return nil
}
