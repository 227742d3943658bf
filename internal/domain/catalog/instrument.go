package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Instrument struct {
	ID                       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstrumentCode           string     `gorm:"uniqueIndex;not null;column:instrument_code" json:"instrument_code"`
	InstrumentName           string     `gorm:"not null;column:instrument_name" json:"instrument_name"`
	InstrumentType           string     `gorm:"column:instrument_type" json:"instrument_type,omitempty"`
	Make                     string     `gorm:"column:make" json:"make,omitempty"`
	Model                    string     `gorm:"column:model" json:"model,omitempty"`
	SerialNumber             string     `gorm:"column:serial_number" json:"serial_number,omitempty"`
	CalibrationDueDate       *time.Time `gorm:"column:calibration_due_date" json:"calibration_due_date,omitempty"`
	CalibrationFrequencyDays int        `gorm:"column:calibration_frequency_days;default:365" json:"calibration_frequency_days"`
	LastCalibrationDate      *time.Time `gorm:"column:last_calibration_date" json:"last_calibration_date,omitempty"`
	CalibrationCertificateNo string     `gorm:"column:calibration_certificate_no" json:"calibration_certificate_no,omitempty"`
	Location                 string     `gorm:"column:location" json:"location,omitempty"`
	DepartmentID             *uuid.UUID `gorm:"type:uuid;column:department_id" json:"department_id,omitempty"`
	IsActive                 bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt                time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Instrument) TableName() string { return "qc_instruments" }

// CalibrationStatus reports "overdue", "due_soon" (within 30 days), "valid",
// or "unknown" when no due date is recorded.
func (i *Instrument) CalibrationStatus(now time.Time) string {
	if i.CalibrationDueDate == nil {
		return "unknown"
	}
	days := int(i.CalibrationDueDate.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return "overdue"
	case days <= 30:
		return "due_soon"
	default:
		return "valid"
	}
}
