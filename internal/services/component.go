package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/catalog"
	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	samplingrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/sampling"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/requestdata"
)

type CheckingParameterInput struct {
	CheckingType   string     `json:"checking_type"`
	CheckingPoint  string     `json:"checking_point"`
	Specification  string     `json:"specification"`
	UnitID         *uuid.UUID `json:"unit_id"`
	UnitCode       string     `json:"unit_code"`
	NominalValue   *float64   `json:"nominal_value"`
	ToleranceMin   *float64   `json:"tolerance_min"`
	ToleranceMax   *float64   `json:"tolerance_max"`
	InstrumentID   *uuid.UUID `json:"instrument_id"`
	InstrumentName string     `json:"instrument_name"`
	InputType      string     `json:"input_type"`
	SortOrder      int        `json:"sort_order"`
	IsMandatory    bool       `json:"is_mandatory"`
}

type SpecificationInput struct {
	SpecKey   string `json:"spec_key"`
	SpecValue string `json:"spec_value"`
	SortOrder int    `json:"sort_order"`
}

type VendorLinkInput struct {
	VendorID       uuid.UUID `json:"vendor_id"`
	IsPrimary      bool      `json:"is_primary"`
	IsApproved     bool      `json:"is_approved"`
	VendorPartCode string    `json:"vendor_part_code"`
	UnitPrice      *float64  `json:"unit_price"`
	LeadTimeDays   *int      `json:"lead_time_days"`
	Remarks        string    `json:"remarks"`
}

type ComponentInput struct {
	PartCode              string     `json:"part_code"`
	PartName              string     `json:"part_name"`
	PartDescription       string     `json:"part_description"`
	CategoryID            uuid.UUID  `json:"category_id"`
	ProductGroupID        uuid.UUID  `json:"product_group_id"`
	QCRequired            bool       `json:"qc_required"`
	QCPlanID              *uuid.UUID `json:"qc_plan_id"`
	DefaultInspectionType string     `json:"default_inspection_type"`
	DefaultSamplingPlanID *uuid.UUID `json:"default_sampling_plan_id"`
	DrawingNo             string     `json:"drawing_no"`
	DrawingRevision       string     `json:"drawing_revision"`
	TestCertRequired      bool       `json:"test_cert_required"`
	SpecRequired          bool       `json:"spec_required"`
	FQIRRequired          bool       `json:"fqir_required"`
	COCRequired           bool       `json:"coc_required"`
	PRProcessCode         string     `json:"pr_process_code"`
	PRProcessName         string     `json:"pr_process_name"`
	LeadTimeDays          *int       `json:"lead_time_days"`
	PrimaryVendorID       *uuid.UUID `json:"primary_vendor_id"`
	SkipLotEnabled        bool       `json:"skip_lot_enabled"`
	SkipLotCount          int        `json:"skip_lot_count"`
	SkipLotThreshold      int        `json:"skip_lot_threshold"`
	DepartmentID          *uuid.UUID `json:"department_id"`

	CheckingParameters []CheckingParameterInput `json:"checking_parameters"`
	Specifications     []SpecificationInput     `json:"specifications"`
	VendorLinks        []VendorLinkInput        `json:"vendor_links"`
}

// ComponentPatch is a partial update. Nil scalars stay untouched. A non-nil
// collection pointer replaces that collection wholesale; the other two are
// left exactly as they are.
type ComponentPatch struct {
	PartCode              *string    `json:"part_code"`
	PartName              *string    `json:"part_name"`
	PartDescription       *string    `json:"part_description"`
	CategoryID            *uuid.UUID `json:"category_id"`
	ProductGroupID        *uuid.UUID `json:"product_group_id"`
	QCRequired            *bool      `json:"qc_required"`
	QCPlanID              *uuid.UUID `json:"qc_plan_id"`
	ClearQCPlan           bool       `json:"clear_qc_plan"`
	DefaultInspectionType *string    `json:"default_inspection_type"`
	DefaultSamplingPlanID *uuid.UUID `json:"default_sampling_plan_id"`
	ClearSamplingPlan     bool       `json:"clear_sampling_plan"`
	DrawingNo             *string    `json:"drawing_no"`
	DrawingRevision       *string    `json:"drawing_revision"`
	TestCertRequired      *bool      `json:"test_cert_required"`
	SpecRequired          *bool      `json:"spec_required"`
	FQIRRequired          *bool      `json:"fqir_required"`
	COCRequired           *bool      `json:"coc_required"`
	PRProcessCode         *string    `json:"pr_process_code"`
	PRProcessName         *string    `json:"pr_process_name"`
	LeadTimeDays          *int       `json:"lead_time_days"`
	PrimaryVendorID       *uuid.UUID `json:"primary_vendor_id"`
	ClearPrimaryVendor    bool       `json:"clear_primary_vendor"`
	SkipLotEnabled        *bool      `json:"skip_lot_enabled"`
	SkipLotCount          *int       `json:"skip_lot_count"`
	SkipLotThreshold      *int       `json:"skip_lot_threshold"`
	DepartmentID          *uuid.UUID `json:"department_id"`
	ClearDepartment       bool       `json:"clear_department"`
	Status                *string    `json:"status"`

	CheckingParameters *[]CheckingParameterInput `json:"checking_parameters"`
	Specifications     *[]SpecificationInput     `json:"specifications"`
	VendorLinks        *[]VendorLinkInput        `json:"vendor_links"`
}

// DocumentInput describes a stored file. The bytes live in external storage
// under StorageKey; only the catalog row is kept here.
type DocumentInput struct {
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	StorageKey   string `json:"storage_key"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`
	Version      string `json:"version"`
}

var documentTypes = map[string]bool{
	"drawing":       true,
	"test_cert":     true,
	"fqir":          true,
	"coc":           true,
	"specification": true,
	"spec_sheet":    true,
	"other":         true,
}

type ComponentService interface {
	Create(ctx context.Context, input ComponentInput) (*types.Component, error)
	Update(ctx context.Context, id uuid.UUID, patch ComponentPatch) (*types.Component, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Component, error)
	List(ctx context.Context, filter componentrepo.ListFilter) ([]*types.Component, error)
	Duplicate(ctx context.Context, id uuid.UUID) (*types.Component, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ValidatePartCode(ctx context.Context, partCode string, excludeID *uuid.UUID) (bool, error)

	AddDocument(ctx context.Context, componentID uuid.UUID, input DocumentInput) (*types.ComponentDocument, error)
	ListDocuments(ctx context.Context, componentID uuid.UUID, currentOnly bool) ([]*types.ComponentDocument, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

type componentService struct {
	db            *gorm.DB
	log           *logger.Logger
	componentRepo componentrepo.ComponentRepo
	documentRepo  componentrepo.DocumentRepo
	categoryRepo  catalogrepo.CategoryRepo
	groupRepo     catalogrepo.GroupRepo
	unitRepo      catalogrepo.UnitRepo
	instRepo      catalogrepo.InstrumentRepo
	vendorRepo    catalogrepo.VendorRepo
	deptRepo      catalogrepo.DepartmentRepo
	qcPlanRepo    qcplanrepo.PlanRepo
	samplingRepo  samplingrepo.PlanRepo
	auditService  AuditService
}

func NewComponentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	componentRepo componentrepo.ComponentRepo,
	documentRepo componentrepo.DocumentRepo,
	categoryRepo catalogrepo.CategoryRepo,
	groupRepo catalogrepo.GroupRepo,
	unitRepo catalogrepo.UnitRepo,
	instRepo catalogrepo.InstrumentRepo,
	vendorRepo catalogrepo.VendorRepo,
	deptRepo catalogrepo.DepartmentRepo,
	qcPlanRepo qcplanrepo.PlanRepo,
	samplingRepo samplingrepo.PlanRepo,
	auditService AuditService,
) ComponentService {
	return &componentService{
		db:            db,
		log:           baseLog.With("service", "ComponentService"),
		componentRepo: componentRepo,
		documentRepo:  documentRepo,
		categoryRepo:  categoryRepo,
		groupRepo:     groupRepo,
		unitRepo:      unitRepo,
		instRepo:      instRepo,
		vendorRepo:    vendorRepo,
		deptRepo:      deptRepo,
		qcPlanRepo:    qcPlanRepo,
		samplingRepo:  samplingRepo,
		auditService:  auditService,
	}
}

// validateShape covers the database-free component invariants: inspection type
// vs sampling plan, skip-lot settings, tolerance bands, duplicate spec keys
// and duplicate vendor links. Everything found is appended; nothing short
// circuits.
func validateShape(input *ComponentInput) []apperr.FieldError {
	var fields []apperr.FieldError

	if input.PartCode == "" {
		fields = append(fields, apperr.Fieldf("part_code", "is required"))
	}
	if input.PartName == "" {
		fields = append(fields, apperr.Fieldf("part_name", "is required"))
	}

	switch input.DefaultInspectionType {
	case types.InspectionTypeSampling:
		if input.DefaultSamplingPlanID == nil {
			fields = append(fields, apperr.Fieldf("default_sampling_plan_id", "is required for sampling inspection"))
		}
	case types.InspectionType100Percent:
		if input.DefaultSamplingPlanID != nil {
			fields = append(fields, apperr.Fieldf("default_sampling_plan_id", "must be empty for 100_percent inspection"))
		}
	default:
		fields = append(fields, apperr.Fieldf("default_inspection_type", "must be sampling or 100_percent"))
	}

	if input.SkipLotEnabled {
		if input.SkipLotCount < 1 {
			fields = append(fields, apperr.Fieldf("skip_lot_count", "must be >= 1 when skip lot is enabled"))
		}
		if input.SkipLotThreshold < 1 {
			fields = append(fields, apperr.Fieldf("skip_lot_threshold", "must be >= 1 when skip lot is enabled"))
		}
	}

	for i, cp := range input.CheckingParameters {
		prefix := fmt.Sprintf("checking_parameters[%d]", i)
		if cp.CheckingPoint == "" {
			fields = append(fields, apperr.Fieldf(prefix+".checking_point", "is required"))
		}
		if cp.CheckingType == "" {
			fields = append(fields, apperr.Fieldf(prefix+".checking_type", "is required"))
		}
		fields = append(fields, validateToleranceBand(prefix, cp.NominalValue, cp.ToleranceMin, cp.ToleranceMax)...)
	}

	seenKeys := make(map[string]int, len(input.Specifications))
	for i, sp := range input.Specifications {
		prefix := fmt.Sprintf("specifications[%d]", i)
		if sp.SpecKey == "" {
			fields = append(fields, apperr.Fieldf(prefix+".spec_key", "is required"))
			continue
		}
		key := strings.ToLower(sp.SpecKey)
		if prev, dup := seenKeys[key]; dup {
			fields = append(fields, apperr.Fieldf(prefix+".spec_key",
				"duplicate key %q, already used by specifications[%d]", sp.SpecKey, prev))
		} else {
			seenKeys[key] = i
		}
	}

	seenVendors := make(map[uuid.UUID]int, len(input.VendorLinks))
	for i, vl := range input.VendorLinks {
		prefix := fmt.Sprintf("vendor_links[%d]", i)
		if vl.VendorID == uuid.Nil {
			fields = append(fields, apperr.Fieldf(prefix+".vendor_id", "is required"))
			continue
		}
		if prev, dup := seenVendors[vl.VendorID]; dup {
			fields = append(fields, apperr.Fieldf(prefix+".vendor_id",
				"vendor already linked at vendor_links[%d]", prev))
		} else {
			seenVendors[vl.VendorID] = i
		}
	}

	return fields
}

// validateReferences resolves every foreign key the component carries, active
// rows only, and checks part-code uniqueness among non-deleted rows. All
// problems are collected into one list.
func (s *componentService) validateReferences(ctx context.Context, tx *gorm.DB, input *ComponentInput, excludeID *uuid.UUID) ([]apperr.FieldError, error) {
	var fields []apperr.FieldError

	_, err := s.categoryRepo.GetActiveByID(ctx, tx, input.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fields = append(fields, apperr.Fieldf("category_id", "invalid or inactive category"))
	} else if err != nil {
		return nil, err
	}

	grp, err := s.groupRepo.GetActiveByID(ctx, tx, input.ProductGroupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fields = append(fields, apperr.Fieldf("product_group_id", "invalid or inactive product group"))
	} else if err != nil {
		return nil, err
	} else if grp.CategoryID != input.CategoryID {
		fields = append(fields, apperr.Fieldf("product_group_id", "group does not belong to category %s", input.CategoryID))
	}

	if input.QCPlanID != nil {
		_, err := s.qcPlanRepo.GetActiveByID(ctx, tx, *input.QCPlanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, apperr.Fieldf("qc_plan_id", "invalid or inactive QC plan"))
		} else if err != nil {
			return nil, err
		}
	}
	if input.DefaultSamplingPlanID != nil {
		_, err := s.samplingRepo.GetActiveByID(ctx, tx, *input.DefaultSamplingPlanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, apperr.Fieldf("default_sampling_plan_id", "invalid or inactive sampling plan"))
		} else if err != nil {
			return nil, err
		}
	}
	if input.DepartmentID != nil {
		_, err := s.deptRepo.GetActiveByID(ctx, tx, *input.DepartmentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, apperr.Fieldf("department_id", "invalid or inactive department"))
		} else if err != nil {
			return nil, err
		}
	}
	if input.PrimaryVendorID != nil {
		_, err := s.vendorRepo.GetActiveByID(ctx, tx, *input.PrimaryVendorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, apperr.Fieldf("primary_vendor_id", "invalid or inactive vendor"))
		} else if err != nil {
			return nil, err
		}
	}

	if input.PartCode != "" {
		taken, err := s.componentRepo.PartCodeExists(ctx, tx, input.PartCode, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			fields = append(fields, apperr.Fieldf("part_code", "part code %s already exists", input.PartCode))
		}
	}

	for i, cp := range input.CheckingParameters {
		prefix := fmt.Sprintf("checking_parameters[%d]", i)
		if cp.UnitID != nil {
			_, err := s.unitRepo.GetActiveByID(ctx, tx, *cp.UnitID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fields = append(fields, apperr.Fieldf(prefix+".unit_id", "invalid unit"))
			} else if err != nil {
				return nil, err
			}
		}
		if cp.InstrumentID != nil {
			_, err := s.instRepo.GetActiveByID(ctx, tx, *cp.InstrumentID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fields = append(fields, apperr.Fieldf(prefix+".instrument_id", "invalid instrument"))
			} else if err != nil {
				return nil, err
			}
		}
	}
	for i, vl := range input.VendorLinks {
		if vl.VendorID == uuid.Nil {
			continue
		}
		_, err := s.vendorRepo.GetActiveByID(ctx, tx, vl.VendorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, apperr.Fieldf(fmt.Sprintf("vendor_links[%d].vendor_id", i), "invalid or inactive vendor"))
		} else if err != nil {
			return nil, err
		}
	}

	return fields, nil
}

func newComponentCode() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func buildCheckingParameters(componentID uuid.UUID, inputs []CheckingParameterInput) []*types.CheckingParameter {
	rows := make([]*types.CheckingParameter, 0, len(inputs))
	for _, cp := range inputs {
		inputType := cp.InputType
		if inputType == "" {
			inputType = "measurement"
		}
		rows = append(rows, &types.CheckingParameter{
			ComponentID:    componentID,
			CheckingType:   cp.CheckingType,
			CheckingPoint:  cp.CheckingPoint,
			Specification:  cp.Specification,
			UnitID:         cp.UnitID,
			UnitCode:       cp.UnitCode,
			NominalValue:   cp.NominalValue,
			ToleranceMin:   cp.ToleranceMin,
			ToleranceMax:   cp.ToleranceMax,
			InstrumentID:   cp.InstrumentID,
			InstrumentName: cp.InstrumentName,
			InputType:      inputType,
			SortOrder:      cp.SortOrder,
			IsMandatory:    cp.IsMandatory,
			IsActive:       true,
		})
	}
	return rows
}

func buildSpecifications(componentID uuid.UUID, inputs []SpecificationInput) []*types.Specification {
	rows := make([]*types.Specification, 0, len(inputs))
	for _, sp := range inputs {
		rows = append(rows, &types.Specification{
			ComponentID: componentID,
			SpecKey:     sp.SpecKey,
			SpecValue:   sp.SpecValue,
			SortOrder:   sp.SortOrder,
		})
	}
	return rows
}

func buildVendorLinks(componentID uuid.UUID, inputs []VendorLinkInput) []*types.VendorLink {
	rows := make([]*types.VendorLink, 0, len(inputs))
	for _, vl := range inputs {
		rows = append(rows, &types.VendorLink{
			ComponentID:    componentID,
			VendorID:       vl.VendorID,
			IsPrimary:      vl.IsPrimary,
			IsApproved:     vl.IsApproved,
			VendorPartCode: vl.VendorPartCode,
			UnitPrice:      vl.UnitPrice,
			LeadTimeDays:   vl.LeadTimeDays,
			Remarks:        vl.Remarks,
		})
	}
	return rows
}

func (s *componentService) Create(ctx context.Context, input ComponentInput) (*types.Component, error) {
	if err := apperr.Validation(validateShape(&input)); err != nil {
		return nil, err
	}

	actor, _ := requestdata.GetActor(ctx)
	var created *types.Component
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refFields, err := s.validateReferences(ctx, tx, &input, nil)
		if err != nil {
			return err
		}
		if err := apperr.Validation(refFields); err != nil {
			return err
		}

		comp := &types.Component{
			ComponentCode:         newComponentCode(),
			PartCode:              input.PartCode,
			PartName:              input.PartName,
			PartDescription:       input.PartDescription,
			CategoryID:            input.CategoryID,
			ProductGroupID:        input.ProductGroupID,
			QCRequired:            input.QCRequired,
			QCPlanID:              input.QCPlanID,
			DefaultInspectionType: input.DefaultInspectionType,
			DefaultSamplingPlanID: input.DefaultSamplingPlanID,
			DrawingNo:             input.DrawingNo,
			DrawingRevision:       input.DrawingRevision,
			TestCertRequired:      input.TestCertRequired,
			SpecRequired:          input.SpecRequired,
			FQIRRequired:          input.FQIRRequired,
			COCRequired:           input.COCRequired,
			PRProcessCode:         input.PRProcessCode,
			PRProcessName:         input.PRProcessName,
			LeadTimeDays:          input.LeadTimeDays,
			PrimaryVendorID:       input.PrimaryVendorID,
			SkipLotEnabled:        input.SkipLotEnabled,
			SkipLotCount:          input.SkipLotCount,
			SkipLotThreshold:      input.SkipLotThreshold,
			DepartmentID:          input.DepartmentID,
			Status:                types.StatusActive,
			CreatedBy:             actor.UserName,
		}
		if err := s.componentRepo.Create(ctx, tx, comp); err != nil {
			// Races past the in-transaction uniqueness check surface here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateCodeError{Entity: "component", Field: "part_code", Code: comp.PartCode}
			}
			return err
		}
		if err := s.componentRepo.ReplaceCheckingParameters(ctx, tx, comp.ID, buildCheckingParameters(comp.ID, input.CheckingParameters)); err != nil {
			return err
		}
		if err := s.componentRepo.ReplaceSpecifications(ctx, tx, comp.ID, buildSpecifications(comp.ID, input.Specifications)); err != nil {
			return err
		}
		if err := s.componentRepo.ReplaceVendorLinks(ctx, tx, comp.ID, buildVendorLinks(comp.ID, input.VendorLinks)); err != nil {
			return err
		}

		if err := s.auditService.Record(ctx, tx, "qc_component_master", comp.ID, types.AuditInsert, nil, comp); err != nil {
			s.log.Warn("Create: audit record failed", "error", err, "component_id", comp.ID)
		}
		created = comp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.componentRepo.GetByID(ctx, nil, created.ID)
}

// trackedChanges compares the tracked scalar fields against the patch and
// returns one FieldChange per differing field. Comparison is string based so
// a UUID against a UUID pointer or a bool against a bool all reduce to text,
// the way the history table stores them.
func trackedChanges(comp *types.Component, patch *ComponentPatch) []FieldChange {
	str := func(v any) string {
		switch x := v.(type) {
		case nil:
			return ""
		case *uuid.UUID:
			if x == nil {
				return ""
			}
			return x.String()
		case uuid.UUID:
			return x.String()
		case bool:
			return strconv.FormatBool(x)
		case string:
			return x
		default:
			return fmt.Sprintf("%v", v)
		}
	}

	var changes []FieldChange
	add := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, FieldChange{Field: field, OldValue: oldVal, NewValue: newVal})
		}
	}

	if patch.PartCode != nil {
		add("part_code", comp.PartCode, *patch.PartCode)
	}
	if patch.PartName != nil {
		add("part_name", comp.PartName, *patch.PartName)
	}
	if patch.CategoryID != nil {
		add("category_id", str(comp.CategoryID), str(*patch.CategoryID))
	}
	if patch.ProductGroupID != nil {
		add("product_group_id", str(comp.ProductGroupID), str(*patch.ProductGroupID))
	}
	if patch.QCRequired != nil {
		add("qc_required", str(comp.QCRequired), str(*patch.QCRequired))
	}
	if patch.QCPlanID != nil || patch.ClearQCPlan {
		add("qc_plan_id", str(comp.QCPlanID), str(patch.QCPlanID))
	}
	if patch.DefaultInspectionType != nil {
		add("default_inspection_type", comp.DefaultInspectionType, *patch.DefaultInspectionType)
	}
	if patch.DefaultSamplingPlanID != nil || patch.ClearSamplingPlan {
		add("default_sampling_plan_id", str(comp.DefaultSamplingPlanID), str(patch.DefaultSamplingPlanID))
	}
	if patch.DepartmentID != nil || patch.ClearDepartment {
		add("department_id", str(comp.DepartmentID), str(patch.DepartmentID))
	}
	if patch.PrimaryVendorID != nil || patch.ClearPrimaryVendor {
		add("primary_vendor_id", str(comp.PrimaryVendorID), str(patch.PrimaryVendorID))
	}
	if patch.SkipLotEnabled != nil {
		add("skip_lot_enabled", str(comp.SkipLotEnabled), str(*patch.SkipLotEnabled))
	}
	if patch.Status != nil {
		add("status", comp.Status, *patch.Status)
	}
	return changes
}

// applyPatch merges the patch over the loaded component and returns the
// effective ComponentInput used for re-validation. Collections absent from
// the patch stay empty here and are skipped by validation and replacement;
// the stored rows are left untouched.
func applyPatch(comp *types.Component, patch *ComponentPatch) ComponentInput {
	if patch.PartCode != nil {
		comp.PartCode = *patch.PartCode
	}
	if patch.PartName != nil {
		comp.PartName = *patch.PartName
	}
	if patch.PartDescription != nil {
		comp.PartDescription = *patch.PartDescription
	}
	if patch.CategoryID != nil {
		comp.CategoryID = *patch.CategoryID
	}
	if patch.ProductGroupID != nil {
		comp.ProductGroupID = *patch.ProductGroupID
	}
	if patch.QCRequired != nil {
		comp.QCRequired = *patch.QCRequired
	}
	if patch.QCPlanID != nil {
		comp.QCPlanID = patch.QCPlanID
	} else if patch.ClearQCPlan {
		comp.QCPlanID = nil
	}
	if patch.DefaultInspectionType != nil {
		comp.DefaultInspectionType = *patch.DefaultInspectionType
	}
	if patch.DefaultSamplingPlanID != nil {
		comp.DefaultSamplingPlanID = patch.DefaultSamplingPlanID
	} else if patch.ClearSamplingPlan {
		comp.DefaultSamplingPlanID = nil
	}
	if patch.DrawingNo != nil {
		comp.DrawingNo = *patch.DrawingNo
	}
	if patch.DrawingRevision != nil {
		comp.DrawingRevision = *patch.DrawingRevision
	}
	if patch.TestCertRequired != nil {
		comp.TestCertRequired = *patch.TestCertRequired
	}
	if patch.SpecRequired != nil {
		comp.SpecRequired = *patch.SpecRequired
	}
	if patch.FQIRRequired != nil {
		comp.FQIRRequired = *patch.FQIRRequired
	}
	if patch.COCRequired != nil {
		comp.COCRequired = *patch.COCRequired
	}
	if patch.PRProcessCode != nil {
		comp.PRProcessCode = *patch.PRProcessCode
	}
	if patch.PRProcessName != nil {
		comp.PRProcessName = *patch.PRProcessName
	}
	if patch.LeadTimeDays != nil {
		comp.LeadTimeDays = patch.LeadTimeDays
	}
	if patch.PrimaryVendorID != nil {
		comp.PrimaryVendorID = patch.PrimaryVendorID
	} else if patch.ClearPrimaryVendor {
		comp.PrimaryVendorID = nil
	}
	if patch.SkipLotEnabled != nil {
		comp.SkipLotEnabled = *patch.SkipLotEnabled
	}
	if patch.SkipLotCount != nil {
		comp.SkipLotCount = *patch.SkipLotCount
	}
	if patch.SkipLotThreshold != nil {
		comp.SkipLotThreshold = *patch.SkipLotThreshold
	}
	if patch.DepartmentID != nil {
		comp.DepartmentID = patch.DepartmentID
	} else if patch.ClearDepartment {
		comp.DepartmentID = nil
	}
	if patch.Status != nil {
		comp.Status = *patch.Status
	}

	effective := ComponentInput{
		PartCode:              comp.PartCode,
		PartName:              comp.PartName,
		PartDescription:       comp.PartDescription,
		CategoryID:            comp.CategoryID,
		ProductGroupID:        comp.ProductGroupID,
		QCRequired:            comp.QCRequired,
		QCPlanID:              comp.QCPlanID,
		DefaultInspectionType: comp.DefaultInspectionType,
		DefaultSamplingPlanID: comp.DefaultSamplingPlanID,
		PrimaryVendorID:       comp.PrimaryVendorID,
		SkipLotEnabled:        comp.SkipLotEnabled,
		SkipLotCount:          comp.SkipLotCount,
		SkipLotThreshold:      comp.SkipLotThreshold,
		DepartmentID:          comp.DepartmentID,
	}
	if patch.CheckingParameters != nil {
		effective.CheckingParameters = *patch.CheckingParameters
	}
	if patch.Specifications != nil {
		effective.Specifications = *patch.Specifications
	}
	if patch.VendorLinks != nil {
		effective.VendorLinks = *patch.VendorLinks
	}
	return effective
}

func (s *componentService) Update(ctx context.Context, id uuid.UUID, patch ComponentPatch) (*types.Component, error) {
	actor, _ := requestdata.GetActor(ctx)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comp, err := s.componentRepo.GetLiveByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		before := *comp

		// History rows are computed against the pre-patch state, before any
		// field is overwritten.
		changes := trackedChanges(comp, &patch)

		effective := applyPatch(comp, &patch)
		fields := validateShape(&effective)
		refFields, err := s.validateReferences(ctx, tx, &effective, &comp.ID)
		if err != nil {
			return err
		}
		if err := apperr.Validation(append(fields, refFields...)); err != nil {
			return err
		}

		comp.UpdatedBy = actor.UserName
		if err := s.componentRepo.Update(ctx, tx, comp); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateCodeError{Entity: "component", Field: "part_code", Code: comp.PartCode}
			}
			return err
		}

		if patch.CheckingParameters != nil {
			if err := s.componentRepo.ReplaceCheckingParameters(ctx, tx, comp.ID, buildCheckingParameters(comp.ID, *patch.CheckingParameters)); err != nil {
				return err
			}
		}
		if patch.Specifications != nil {
			if err := s.componentRepo.ReplaceSpecifications(ctx, tx, comp.ID, buildSpecifications(comp.ID, *patch.Specifications)); err != nil {
				return err
			}
		}
		if patch.VendorLinks != nil {
			if err := s.componentRepo.ReplaceVendorLinks(ctx, tx, comp.ID, buildVendorLinks(comp.ID, *patch.VendorLinks)); err != nil {
				return err
			}
		}

		if err := s.auditService.RecordComponentChange(ctx, tx, comp.ID, types.AuditUpdate, changes, ""); err != nil {
			s.log.Warn("Update: history record failed", "error", err, "component_id", comp.ID)
		}
		if err := s.auditService.Record(ctx, tx, "qc_component_master", comp.ID, types.AuditUpdate, &before, comp); err != nil {
			s.log.Warn("Update: audit record failed", "error", err, "component_id", comp.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.componentRepo.GetByID(ctx, nil, id)
}

func (s *componentService) Get(ctx context.Context, id uuid.UUID) (*types.Component, error) {
	comp, err := s.componentRepo.GetLiveByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return comp, nil
}

func (s *componentService) List(ctx context.Context, filter componentrepo.ListFilter) ([]*types.Component, error) {
	return s.componentRepo.List(ctx, nil, filter)
}

// copyPartCode derives the first free duplicate part code: PART-COPY, then
// PART-COPY-2, PART-COPY-3 and so on.
func (s *componentService) copyPartCode(ctx context.Context, tx *gorm.DB, base string) (string, error) {
	candidate := base + "-COPY"
	for suffix := 2; ; suffix++ {
		taken, err := s.componentRepo.PartCodeExists(ctx, tx, candidate, nil)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-COPY-%d", base, suffix)
	}
}

func (s *componentService) Duplicate(ctx context.Context, id uuid.UUID) (*types.Component, error) {
	actor, _ := requestdata.GetActor(ctx)
	var created *types.Component
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := s.componentRepo.GetLiveByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		partCode, err := s.copyPartCode(ctx, tx, src.PartCode)
		if err != nil {
			return err
		}

		dup := &types.Component{
			ComponentCode:         newComponentCode(),
			PartCode:              partCode,
			PartName:              src.PartName + " (Copy)",
			PartDescription:       src.PartDescription,
			CategoryID:            src.CategoryID,
			ProductGroupID:        src.ProductGroupID,
			QCRequired:            src.QCRequired,
			QCPlanID:              src.QCPlanID,
			DefaultInspectionType: src.DefaultInspectionType,
			DefaultSamplingPlanID: src.DefaultSamplingPlanID,
			TestCertRequired:      src.TestCertRequired,
			SpecRequired:          src.SpecRequired,
			FQIRRequired:          src.FQIRRequired,
			COCRequired:           src.COCRequired,
			PRProcessCode:         src.PRProcessCode,
			PRProcessName:         src.PRProcessName,
			SkipLotEnabled:        src.SkipLotEnabled,
			SkipLotCount:          src.SkipLotCount,
			SkipLotThreshold:      src.SkipLotThreshold,
			DepartmentID:          src.DepartmentID,
			PrimaryVendorID:       src.PrimaryVendorID,
			Status:                types.StatusDraft,
			CreatedBy:             actor.UserName,
		}
		if err := s.componentRepo.Create(ctx, tx, dup); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateCodeError{Entity: "component", Field: "part_code", Code: dup.PartCode}
			}
			return err
		}

		var params []*types.CheckingParameter
		for _, p := range src.CheckingParameters {
			if !p.IsActive {
				continue
			}
			cp := p
			cp.ID = uuid.Nil
			cp.ComponentID = dup.ID
			params = append(params, &cp)
		}
		if err := s.componentRepo.ReplaceCheckingParameters(ctx, tx, dup.ID, params); err != nil {
			return err
		}

		var specs []*types.Specification
		for _, sp := range src.Specifications {
			cp := sp
			cp.ID = uuid.Nil
			cp.ComponentID = dup.ID
			specs = append(specs, &cp)
		}
		if err := s.componentRepo.ReplaceSpecifications(ctx, tx, dup.ID, specs); err != nil {
			return err
		}

		var links []*types.VendorLink
		for _, vl := range src.VendorLinks {
			cp := vl
			cp.ID = uuid.Nil
			cp.ComponentID = dup.ID
			links = append(links, &cp)
		}
		if err := s.componentRepo.ReplaceVendorLinks(ctx, tx, dup.ID, links); err != nil {
			return err
		}

		if err := s.auditService.Record(ctx, tx, "qc_component_master", dup.ID, types.AuditInsert, nil, dup); err != nil {
			s.log.Warn("Duplicate: audit record failed", "error", err, "component_id", dup.ID)
		}
		created = dup
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.componentRepo.GetByID(ctx, nil, created.ID)
}

func (s *componentService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	actor, _ := requestdata.GetActor(ctx)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comp, err := s.componentRepo.GetLiveByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		before := *comp

		now := time.Now().UTC()
		comp.IsDeleted = true
		comp.DeletedAt = &now
		comp.DeletedBy = actor.UserName
		comp.Status = types.StatusInactive
		comp.UpdatedAt = now
		if err := s.componentRepo.SoftDelete(ctx, tx, comp); err != nil {
			return err
		}

		if err := s.auditService.Record(ctx, tx, "qc_component_master", comp.ID, types.AuditDelete, &before, comp); err != nil {
			s.log.Warn("SoftDelete: audit record failed", "error", err, "component_id", comp.ID)
		}
		return nil
	})
}

func (s *componentService) ValidatePartCode(ctx context.Context, partCode string, excludeID *uuid.UUID) (bool, error) {
	taken, err := s.componentRepo.PartCodeExists(ctx, nil, partCode, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *componentService) AddDocument(ctx context.Context, componentID uuid.UUID, input DocumentInput) (*types.ComponentDocument, error) {
	var fields []apperr.FieldError
	if !documentTypes[input.DocumentType] {
		fields = append(fields, apperr.Fieldf("document_type", "must be one of drawing, test_cert, fqir, coc, specification, spec_sheet, other"))
	}
	if input.FileName == "" {
		fields = append(fields, apperr.Fieldf("file_name", "is required"))
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	actor, _ := requestdata.GetActor(ctx)
	var doc *types.ComponentDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.componentRepo.GetLiveByID(ctx, tx, componentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		// A fresh upload of the same type becomes the current one.
		if err := s.documentRepo.MarkSuperseded(ctx, tx, componentID, input.DocumentType); err != nil {
			return err
		}
		version := input.Version
		if version == "" {
			version = "1.0"
		}
		doc = &types.ComponentDocument{
			ComponentID:  componentID,
			DocumentType: input.DocumentType,
			FileName:     input.FileName,
			OriginalName: input.OriginalName,
			StorageKey:   input.StorageKey,
			FileSize:     input.FileSize,
			MimeType:     input.MimeType,
			Version:      version,
			IsCurrent:    true,
			UploadedAt:   time.Now().UTC(),
			UploadedBy:   actor.UserName,
		}
		return s.documentRepo.Create(ctx, tx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *componentService) ListDocuments(ctx context.Context, componentID uuid.UUID, currentOnly bool) ([]*types.ComponentDocument, error) {
	return s.documentRepo.ListByComponent(ctx, nil, componentID, currentOnly)
}

func (s *componentService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.documentRepo.GetByID(ctx, tx, documentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		return s.documentRepo.Delete(ctx, tx, documentID)
	})
}
