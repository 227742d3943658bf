package domain

import (
	"github.com/titanfab/qcmaster-backend/internal/domain/audit"
	"github.com/titanfab/qcmaster-backend/internal/domain/catalog"
	"github.com/titanfab/qcmaster-backend/internal/domain/component"
	"github.com/titanfab/qcmaster-backend/internal/domain/qcplan"
	"github.com/titanfab/qcmaster-backend/internal/domain/sampling"
)

const (
	InspectionTypeSampling   = "sampling"
	InspectionType100Percent = "100_percent"

	CheckingTypeVisual     = "visual"
	CheckingTypeFunctional = "functional"

	StatusDraft      = "draft"
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusSuperseded = "superseded"

	ConfigTypeString  = "string"
	ConfigTypeNumber  = "number"
	ConfigTypeBoolean = "boolean"
	ConfigTypeJSON    = "json"
)

type ProductCategory = catalog.ProductCategory
type ProductGroup = catalog.ProductGroup
type Unit = catalog.Unit
type Instrument = catalog.Instrument
type Vendor = catalog.Vendor
type Department = catalog.Department
type DefectType = catalog.DefectType
type RejectionReason = catalog.RejectionReason
type Location = catalog.Location
type SystemConfig = catalog.SystemConfig

type Component = component.Component
type CheckingParameter = component.CheckingParameter
type Specification = component.Specification
type VendorLink = component.VendorLink
type ComponentDocument = component.Document

type SamplingPlan = sampling.Plan
type LotSizeBand = sampling.LotSizeBand

type QCPlan = qcplan.Plan
type QCPlanStage = qcplan.Stage
type QCPlanParameter = qcplan.StageParameter

type AuditLog = audit.Log
type ComponentHistory = audit.ComponentHistory

const (
	AuditInsert = audit.ActionInsert
	AuditUpdate = audit.ActionUpdate
	AuditDelete = audit.ActionDelete
)
