package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID                      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DepartmentCode          string    `gorm:"uniqueIndex;not null;column:department_code" json:"department_code"`
	DepartmentName          string    `gorm:"not null;column:department_name" json:"department_name"`
	PassSourceLocation      string    `gorm:"column:pass_source_location" json:"pass_source_location,omitempty"`
	PassDestinationLocation string    `gorm:"column:pass_destination_location" json:"pass_destination_location,omitempty"`
	FailSourceLocation      string    `gorm:"column:fail_source_location" json:"fail_source_location,omitempty"`
	FailDestinationLocation string    `gorm:"column:fail_destination_location" json:"fail_destination_location,omitempty"`
	Description             string    `gorm:"column:description" json:"description,omitempty"`
	IsActive                bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt               time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Department) TableName() string { return "qc_departments" }
