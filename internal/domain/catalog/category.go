package catalog

import (
	"time"

	"github.com/google/uuid"
)

type ProductCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryCode string    `gorm:"uniqueIndex;not null;column:category_code" json:"category_code"`
	CategoryName string    `gorm:"not null;column:category_name" json:"category_name"`
	Icon         string    `gorm:"column:icon" json:"icon,omitempty"`
	Description  string    `gorm:"column:description" json:"description,omitempty"`
	SortOrder    int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy    string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy    string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
}

func (ProductCategory) TableName() string { return "qc_product_categories" }

type ProductGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;column:category_id" json:"category_id"`
	GroupCode   string    `gorm:"uniqueIndex;not null;column:group_code" json:"group_code"`
	GroupName   string    `gorm:"not null;column:group_name" json:"group_name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	SortOrder   int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProductGroup) TableName() string { return "qc_product_groups" }
