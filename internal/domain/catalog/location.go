package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LocationCode     string     `gorm:"uniqueIndex;not null;column:location_code" json:"location_code"`
	LocationName     string     `gorm:"not null;column:location_name" json:"location_name"`
	LocationType     string     `gorm:"column:location_type" json:"location_type,omitempty"`
	ParentLocationID *uuid.UUID `gorm:"type:uuid;column:parent_location_id" json:"parent_location_id,omitempty"`
	WarehouseName    string     `gorm:"column:warehouse_name" json:"warehouse_name,omitempty"`
	IsQuarantine     bool       `gorm:"column:is_quarantine;default:false" json:"is_quarantine"`
	IsRestricted     bool       `gorm:"column:is_restricted;default:false" json:"is_restricted"`
	IsActive         bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Location) TableName() string { return "qc_locations" }
