package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Log is append-only. Nothing in the engine updates or deletes rows of this
// table after insert.
type Log struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Table           string         `gorm:"not null;index;column:table_name" json:"table_name"`
	RecordID        uuid.UUID      `gorm:"type:uuid;not null;index;column:record_id" json:"record_id"`
	Action          string         `gorm:"not null;column:action" json:"action"`
	OldData         datatypes.JSON `gorm:"column:old_data" json:"old_data,omitempty"`
	NewData         datatypes.JSON `gorm:"column:new_data" json:"new_data,omitempty"`
	ChangedFields   datatypes.JSON `gorm:"column:changed_fields" json:"changed_fields,omitempty"`
	UserID          string         `gorm:"column:user_id" json:"user_id,omitempty"`
	UserName        string         `gorm:"column:user_name" json:"user_name,omitempty"`
	UserRole        string         `gorm:"column:user_role" json:"user_role,omitempty"`
	UserIP          string         `gorm:"column:user_ip" json:"user_ip,omitempty"`
	ActionTimestamp time.Time      `gorm:"not null;default:now();column:action_timestamp" json:"action_timestamp"`
}

func (Log) TableName() string { return "qc_audit_log" }

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ComponentHistory records one tracked-field change of one component. Finer
// grained than Log: one row per field, not per mutation.
type ComponentHistory struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentID  uuid.UUID `gorm:"type:uuid;not null;index;column:component_id" json:"component_id"`
	Action       string    `gorm:"not null;column:action" json:"action"`
	FieldName    string    `gorm:"column:field_name" json:"field_name,omitempty"`
	OldValue     string    `gorm:"column:old_value" json:"old_value,omitempty"`
	NewValue     string    `gorm:"column:new_value" json:"new_value,omitempty"`
	ChangeReason string    `gorm:"column:change_reason" json:"change_reason,omitempty"`
	ChangedAt    time.Time `gorm:"not null;default:now();column:changed_at" json:"changed_at"`
	ChangedBy    string    `gorm:"column:changed_by" json:"changed_by,omitempty"`
}

func (ComponentHistory) TableName() string { return "qc_component_history" }
