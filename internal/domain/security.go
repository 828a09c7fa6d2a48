package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Security is a tradable instrument. Symbol uniqueness among active
// securities is enforced in the service transaction, not by a DB unique
// index, so a deactivated security's symbol can be reused.
type Security struct {
	SecurityID uuid.UUID `gorm:"column:security_id;type:uuid;primaryKey" json:"security_id"`
	Name       string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Symbol     string    `gorm:"column:symbol;type:varchar(100);not null;index" json:"symbol"`
	Active     bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Security) TableName() string {
	return "securities"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (s *Security) BeforeCreate(tx *gorm.DB) error {
	if s.SecurityID == uuid.Nil {
		s.SecurityID = uuid.New()
	}
	return nil
}
