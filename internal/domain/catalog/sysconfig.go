package catalog

import (
	"time"

	"github.com/google/uuid"
)

// SystemConfig holds per-module runtime settings. Values are stored as text
// and interpreted by ConfigType.
type SystemConfig struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConfigKey   string    `gorm:"uniqueIndex;not null;column:config_key" json:"config_key"`
	ConfigValue string    `gorm:"not null;column:config_value" json:"config_value"`
	ConfigType  string    `gorm:"column:config_type;default:string" json:"config_type"`
	Module      string    `gorm:"column:module" json:"module,omitempty"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	IsEditable  bool      `gorm:"column:is_editable" json:"is_editable"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy   string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
}

func (SystemConfig) TableName() string { return "qc_system_config" }
