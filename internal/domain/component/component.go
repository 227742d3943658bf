package component

import (
	"time"

	"github.com/google/uuid"
)

// Component is the aggregate root for part master data. Checking parameters,
// specifications, vendor links and documents never outlive it.
type Component struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentCode         string     `gorm:"uniqueIndex;not null;column:component_code" json:"component_code"`
	PartCode              string     `gorm:"uniqueIndex;not null;column:part_code" json:"part_code"`
	PartName              string     `gorm:"not null;column:part_name" json:"part_name"`
	PartDescription       string     `gorm:"column:part_description" json:"part_description,omitempty"`
	CategoryID            uuid.UUID  `gorm:"type:uuid;not null;column:category_id" json:"category_id"`
	ProductGroupID        uuid.UUID  `gorm:"type:uuid;not null;column:product_group_id" json:"product_group_id"`
	QCRequired            bool       `gorm:"column:qc_required;default:true" json:"qc_required"`
	QCPlanID              *uuid.UUID `gorm:"type:uuid;column:qc_plan_id" json:"qc_plan_id,omitempty"`
	DefaultInspectionType string     `gorm:"not null;column:default_inspection_type;default:sampling" json:"default_inspection_type"`
	DefaultSamplingPlanID *uuid.UUID `gorm:"type:uuid;column:default_sampling_plan_id" json:"default_sampling_plan_id,omitempty"`
	DrawingNo             string     `gorm:"column:drawing_no" json:"drawing_no,omitempty"`
	DrawingRevision       string     `gorm:"column:drawing_revision" json:"drawing_revision,omitempty"`
	TestCertRequired      bool       `gorm:"column:test_cert_required;default:false" json:"test_cert_required"`
	SpecRequired          bool       `gorm:"column:spec_required;default:false" json:"spec_required"`
	FQIRRequired          bool       `gorm:"column:fqir_required;default:false" json:"fqir_required"`
	COCRequired           bool       `gorm:"column:coc_required;default:false" json:"coc_required"`
	PRProcessCode         string     `gorm:"column:pr_process_code" json:"pr_process_code,omitempty"`
	PRProcessName         string     `gorm:"column:pr_process_name" json:"pr_process_name,omitempty"`
	LeadTimeDays          *int       `gorm:"column:lead_time_days" json:"lead_time_days,omitempty"`
	PrimaryVendorID       *uuid.UUID `gorm:"type:uuid;column:primary_vendor_id" json:"primary_vendor_id,omitempty"`
	SkipLotEnabled        bool       `gorm:"column:skip_lot_enabled;default:false" json:"skip_lot_enabled"`
	SkipLotCount          int        `gorm:"column:skip_lot_count;default:0" json:"skip_lot_count"`
	SkipLotThreshold      int        `gorm:"column:skip_lot_threshold;default:5" json:"skip_lot_threshold"`
	Status                string     `gorm:"column:status;default:draft" json:"status"`
	DepartmentID          *uuid.UUID `gorm:"type:uuid;column:department_id" json:"department_id,omitempty"`
	CreatedAt             time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy             string     `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy             string     `gorm:"column:updated_by" json:"updated_by,omitempty"`
	IsDeleted             bool       `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	DeletedAt             *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy             string     `gorm:"column:deleted_by" json:"deleted_by,omitempty"`

	CheckingParameters []CheckingParameter `gorm:"foreignKey:ComponentID" json:"checking_parameters,omitempty"`
	Specifications     []Specification     `gorm:"foreignKey:ComponentID" json:"specifications,omitempty"`
	VendorLinks        []VendorLink        `gorm:"foreignKey:ComponentID" json:"vendor_links,omitempty"`
	Documents          []Document          `gorm:"foreignKey:ComponentID" json:"documents,omitempty"`
}

func (Component) TableName() string { return "qc_component_master" }

type CheckingParameter struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentID    uuid.UUID  `gorm:"type:uuid;not null;index;column:component_id" json:"component_id"`
	CheckingType   string     `gorm:"not null;column:checking_type" json:"checking_type"`
	CheckingPoint  string     `gorm:"not null;column:checking_point" json:"checking_point"`
	Specification  string     `gorm:"column:specification" json:"specification,omitempty"`
	UnitID         *uuid.UUID `gorm:"type:uuid;column:unit_id" json:"unit_id,omitempty"`
	UnitCode       string     `gorm:"column:unit_code" json:"unit_code,omitempty"`
	NominalValue   *float64   `gorm:"type:numeric(15,4);column:nominal_value" json:"nominal_value,omitempty"`
	ToleranceMin   *float64   `gorm:"type:numeric(15,4);column:tolerance_min" json:"tolerance_min,omitempty"`
	ToleranceMax   *float64   `gorm:"type:numeric(15,4);column:tolerance_max" json:"tolerance_max,omitempty"`
	InstrumentID   *uuid.UUID `gorm:"type:uuid;column:instrument_id" json:"instrument_id,omitempty"`
	InstrumentName string     `gorm:"column:instrument_name" json:"instrument_name,omitempty"`
	InputType      string     `gorm:"column:input_type;default:measurement" json:"input_type"`
	SortOrder      int        `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsMandatory    bool       `gorm:"column:is_mandatory;default:true" json:"is_mandatory"`
	IsActive       bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (CheckingParameter) TableName() string { return "qc_component_checking_params" }

type Specification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;index;column:component_id" json:"component_id"`
	SpecKey     string    `gorm:"not null;column:spec_key" json:"spec_key"`
	SpecValue   string    `gorm:"column:spec_value" json:"spec_value"`
	SortOrder   int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Specification) TableName() string { return "qc_component_specifications" }

type VendorLink struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentID    uuid.UUID  `gorm:"type:uuid;not null;index;column:component_id" json:"component_id"`
	VendorID       uuid.UUID  `gorm:"type:uuid;not null;column:vendor_id" json:"vendor_id"`
	IsPrimary      bool       `gorm:"column:is_primary;default:false" json:"is_primary"`
	IsApproved     bool       `gorm:"column:is_approved;default:false" json:"is_approved"`
	ApprovalDate   *time.Time `gorm:"column:approval_date" json:"approval_date,omitempty"`
	VendorPartCode string     `gorm:"column:vendor_part_code" json:"vendor_part_code,omitempty"`
	UnitPrice      *float64   `gorm:"type:numeric(15,2);column:unit_price" json:"unit_price,omitempty"`
	Currency       string     `gorm:"column:currency;default:INR" json:"currency"`
	LeadTimeDays   *int       `gorm:"column:lead_time_days" json:"lead_time_days,omitempty"`
	Remarks        string     `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (VendorLink) TableName() string { return "qc_component_vendors" }

// Document is metadata only; the bytes live in external storage addressed by
// StorageKey.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ComponentID  uuid.UUID `gorm:"type:uuid;not null;index;column:component_id" json:"component_id"`
	DocumentType string    `gorm:"not null;column:document_type" json:"document_type"`
	FileName     string    `gorm:"not null;column:file_name" json:"file_name"`
	OriginalName string    `gorm:"column:original_name" json:"original_name,omitempty"`
	StorageKey   string    `gorm:"column:storage_key" json:"storage_key,omitempty"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size,omitempty"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type,omitempty"`
	Version      string    `gorm:"column:version;default:1.0" json:"version"`
	IsCurrent    bool      `gorm:"column:is_current;default:true" json:"is_current"`
	UploadedAt   time.Time `gorm:"not null;default:now()" json:"uploaded_at"`
	UploadedBy   string    `gorm:"column:uploaded_by" json:"uploaded_by,omitempty"`
}

func (Document) TableName() string { return "qc_component_documents" }
