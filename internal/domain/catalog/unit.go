package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Unit struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UnitCode   string    `gorm:"uniqueIndex;not null;column:unit_code" json:"unit_code"`
	UnitName   string    `gorm:"not null;column:unit_name" json:"unit_name"`
	UnitSymbol string    `gorm:"column:unit_symbol" json:"unit_symbol,omitempty"`
	UnitType   string    `gorm:"column:unit_type" json:"unit_type,omitempty"`
	IsActive   bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Unit) TableName() string { return "qc_units" }
