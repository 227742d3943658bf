package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VendorCode     string     `gorm:"uniqueIndex;not null;column:vendor_code" json:"vendor_code"`
	VendorName     string     `gorm:"not null;column:vendor_name" json:"vendor_name"`
	VendorType     string     `gorm:"column:vendor_type;default:supplier" json:"vendor_type"`
	ContactPerson  string     `gorm:"column:contact_person" json:"contact_person,omitempty"`
	Email          string     `gorm:"column:email" json:"email,omitempty"`
	Phone          string     `gorm:"column:phone" json:"phone,omitempty"`
	Mobile         string     `gorm:"column:mobile" json:"mobile,omitempty"`
	AddressLine1   string     `gorm:"column:address_line1" json:"address_line1,omitempty"`
	AddressLine2   string     `gorm:"column:address_line2" json:"address_line2,omitempty"`
	City           string     `gorm:"column:city" json:"city,omitempty"`
	State          string     `gorm:"column:state" json:"state,omitempty"`
	Country        string     `gorm:"column:country;default:India" json:"country"`
	Pincode        string     `gorm:"column:pincode" json:"pincode,omitempty"`
	GSTNumber      string     `gorm:"column:gst_number" json:"gst_number,omitempty"`
	PANNumber      string     `gorm:"column:pan_number" json:"pan_number,omitempty"`
	IsApproved     bool       `gorm:"column:is_approved;default:false" json:"is_approved"`
	ApprovalDate   *time.Time `gorm:"column:approval_date" json:"approval_date,omitempty"`
	ApprovedBy     string     `gorm:"column:approved_by" json:"approved_by,omitempty"`
	QualityRating  *float64   `gorm:"type:numeric(3,2);column:quality_rating" json:"quality_rating,omitempty"`
	DeliveryRating *float64   `gorm:"type:numeric(3,2);column:delivery_rating" json:"delivery_rating,omitempty"`
	IsActive       bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Vendor) TableName() string { return "qc_vendors" }
