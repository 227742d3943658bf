package qcplan

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanCode           string     `gorm:"uniqueIndex;not null;column:plan_code" json:"plan_code"`
	PlanName           string     `gorm:"not null;column:plan_name" json:"plan_name"`
	PlanType           string     `gorm:"column:plan_type;default:standard" json:"plan_type"`
	Revision           string     `gorm:"column:revision" json:"revision,omitempty"`
	RevisionDate       *time.Time `gorm:"column:revision_date" json:"revision_date,omitempty"`
	EffectiveDate      *time.Time `gorm:"column:effective_date" json:"effective_date,omitempty"`
	InspectionStages   int        `gorm:"column:inspection_stages;default:1" json:"inspection_stages"`
	RequiresVisual     bool       `gorm:"column:requires_visual;default:true" json:"requires_visual"`
	RequiresFunctional bool       `gorm:"column:requires_functional;default:false" json:"requires_functional"`
	DocumentNumber     string     `gorm:"column:document_number" json:"document_number,omitempty"`
	ApprovedBy         string     `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedDate       *time.Time `gorm:"column:approved_date" json:"approved_date,omitempty"`
	Status             string     `gorm:"column:status;default:draft" json:"status"`
	IsActive           bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null;default:now()" json:"updated_at"`

	Stages []Stage `gorm:"foreignKey:PlanID" json:"stages,omitempty"`
}

func (Plan) TableName() string { return "qc_plans" }

type Stage struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID             uuid.UUID  `gorm:"type:uuid;not null;index;column:qc_plan_id" json:"qc_plan_id"`
	StageCode          string     `gorm:"not null;column:stage_code" json:"stage_code"`
	StageName          string     `gorm:"not null;column:stage_name" json:"stage_name"`
	StageType          string     `gorm:"not null;column:stage_type" json:"stage_type"`
	StageSequence      int        `gorm:"not null;column:stage_sequence" json:"stage_sequence"`
	InspectionType     string     `gorm:"column:inspection_type;default:sampling" json:"inspection_type"`
	SamplingPlanID     *uuid.UUID `gorm:"type:uuid;column:sampling_plan_id" json:"sampling_plan_id,omitempty"`
	IsMandatory        bool       `gorm:"column:is_mandatory;default:true" json:"is_mandatory"`
	RequiresInstrument bool       `gorm:"column:requires_instrument;default:false" json:"requires_instrument"`
	IsActive           bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`

	Parameters []StageParameter `gorm:"foreignKey:StageID" json:"parameters,omitempty"`
}

func (Stage) TableName() string { return "qc_plan_stages" }

type StageParameter struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StageID            uuid.UUID  `gorm:"type:uuid;not null;index;column:qc_plan_stage_id" json:"qc_plan_stage_id"`
	ParameterCode      string     `gorm:"column:parameter_code" json:"parameter_code,omitempty"`
	ParameterName      string     `gorm:"not null;column:parameter_name" json:"parameter_name"`
	ParameterSequence  int        `gorm:"column:parameter_sequence;default:0" json:"parameter_sequence"`
	CheckingType       string     `gorm:"not null;column:checking_type" json:"checking_type"`
	Specification      string     `gorm:"column:specification" json:"specification,omitempty"`
	UnitID             *uuid.UUID `gorm:"type:uuid;column:unit_id" json:"unit_id,omitempty"`
	NominalValue       *float64   `gorm:"type:numeric(15,4);column:nominal_value" json:"nominal_value,omitempty"`
	ToleranceMin       *float64   `gorm:"type:numeric(15,4);column:tolerance_min" json:"tolerance_min,omitempty"`
	ToleranceMax       *float64   `gorm:"type:numeric(15,4);column:tolerance_max" json:"tolerance_max,omitempty"`
	InstrumentID       *uuid.UUID `gorm:"type:uuid;column:instrument_id" json:"instrument_id,omitempty"`
	InputType          string     `gorm:"column:input_type;default:measurement" json:"input_type"`
	IsMandatory        bool       `gorm:"column:is_mandatory;default:true" json:"is_mandatory"`
	AcceptanceCriteria string     `gorm:"column:acceptance_criteria" json:"acceptance_criteria,omitempty"`
	IsActive           bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (StageParameter) TableName() string { return "qc_plan_parameters" }
