package catalog

import (
	"time"

	"github.com/google/uuid"
)

type DefectType struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DefectCode     string    `gorm:"uniqueIndex;not null;column:defect_code" json:"defect_code"`
	DefectName     string    `gorm:"not null;column:defect_name" json:"defect_name"`
	DefectCategory string    `gorm:"column:defect_category" json:"defect_category,omitempty"`
	SeverityLevel  int       `gorm:"column:severity_level;default:1" json:"severity_level"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	IsActive       bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DefectType) TableName() string { return "qc_defect_types" }

type RejectionReason struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReasonCode     string    `gorm:"uniqueIndex;not null;column:reason_code" json:"reason_code"`
	ReasonName     string    `gorm:"not null;column:reason_name" json:"reason_name"`
	ReasonCategory string    `gorm:"column:reason_category" json:"reason_category,omitempty"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	IsActive       bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RejectionReason) TableName() string { return "qc_rejection_reasons" }
