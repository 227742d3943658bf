package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/catalog"
	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/pkg/validate"
	"github.com/titanfab/qcmaster-backend/internal/requestdata"
)

// LookupRow is the {id, code, name} shape the frontend fills dropdowns with.
type LookupRow struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// CatalogService owns the reference masters every other engine resolves
// against: categories, groups, units, instruments, vendors, departments and
// the defect/rejection/location lookups.
type CatalogService interface {
	CreateCategory(ctx context.Context, cat *types.ProductCategory) error
	UpdateCategory(ctx context.Context, cat *types.ProductCategory) error
	GetCategory(ctx context.Context, id uuid.UUID) (*types.ProductCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*types.ProductCategory, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) error

	CreateGroup(ctx context.Context, grp *types.ProductGroup) error
	UpdateGroup(ctx context.Context, grp *types.ProductGroup) error
	GetGroup(ctx context.Context, id uuid.UUID) (*types.ProductGroup, error)
	ListGroups(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]*types.ProductGroup, error)
	DeactivateGroup(ctx context.Context, id uuid.UUID) error

	CreateUnit(ctx context.Context, unit *types.Unit) error
	UpdateUnit(ctx context.Context, unit *types.Unit) error
	ListUnits(ctx context.Context, unitType string, activeOnly bool) ([]*types.Unit, error)
	DeactivateUnit(ctx context.Context, id uuid.UUID) error

	CreateInstrument(ctx context.Context, inst *types.Instrument) error
	UpdateInstrument(ctx context.Context, inst *types.Instrument) error
	ListInstruments(ctx context.Context, instrumentType string, departmentID *uuid.UUID, activeOnly bool) ([]*types.Instrument, error)
	DeactivateInstrument(ctx context.Context, id uuid.UUID) error

	CreateVendor(ctx context.Context, vendor *types.Vendor) error
	UpdateVendor(ctx context.Context, vendor *types.Vendor) error
	GetVendor(ctx context.Context, id uuid.UUID) (*types.Vendor, error)
	ListVendors(ctx context.Context, vendorType, search string, activeOnly bool) ([]*types.Vendor, error)
	DeactivateVendor(ctx context.Context, id uuid.UUID) error

	CreateDepartment(ctx context.Context, dept *types.Department) error
	UpdateDepartment(ctx context.Context, dept *types.Department) error
	ListDepartments(ctx context.Context, activeOnly bool) ([]*types.Department, error)
	DeactivateDepartment(ctx context.Context, id uuid.UUID) error

	CreateDefectType(ctx context.Context, dt *types.DefectType) error
	UpdateDefectType(ctx context.Context, dt *types.DefectType) error
	ListDefectTypes(ctx context.Context, activeOnly bool) ([]*types.DefectType, error)

	CreateRejectionReason(ctx context.Context, rr *types.RejectionReason) error
	UpdateRejectionReason(ctx context.Context, rr *types.RejectionReason) error
	ListRejectionReasons(ctx context.Context, activeOnly bool) ([]*types.RejectionReason, error)

	CreateLocation(ctx context.Context, loc *types.Location) error
	UpdateLocation(ctx context.Context, loc *types.Location) error
	ListLocations(ctx context.Context, activeOnly bool) ([]*types.Location, error)

	ListSystemConfig(ctx context.Context, modules []string) ([]*types.SystemConfig, error)
	UpdateSystemConfig(ctx context.Context, key string, patch SystemConfigPatch) (*types.SystemConfig, error)

	Lookups(ctx context.Context) (map[string][]LookupRow, error)
}

// SystemConfigPatch updates one configuration value. ConfigType, when set,
// retypes the key; the value is validated against the effective type.
type SystemConfigPatch struct {
	ConfigValue *string `json:"config_value"`
	ConfigType  string  `json:"config_type"`
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	categoryRepo  catalogrepo.CategoryRepo
	groupRepo     catalogrepo.GroupRepo
	unitRepo      catalogrepo.UnitRepo
	instRepo      catalogrepo.InstrumentRepo
	vendorRepo    catalogrepo.VendorRepo
	deptRepo      catalogrepo.DepartmentRepo
	lookupRepo    catalogrepo.LookupRepo
	sysConfigRepo catalogrepo.SystemConfigRepo
	componentRepo componentrepo.ComponentRepo
	qcPlanRepo    qcplanrepo.PlanRepo
	auditService  AuditService
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	categoryRepo catalogrepo.CategoryRepo,
	groupRepo catalogrepo.GroupRepo,
	unitRepo catalogrepo.UnitRepo,
	instRepo catalogrepo.InstrumentRepo,
	vendorRepo catalogrepo.VendorRepo,
	deptRepo catalogrepo.DepartmentRepo,
	lookupRepo catalogrepo.LookupRepo,
	sysConfigRepo catalogrepo.SystemConfigRepo,
	componentRepo componentrepo.ComponentRepo,
	qcPlanRepo qcplanrepo.PlanRepo,
	auditService AuditService,
) CatalogService {
	return &catalogService{
		db:            db,
		log:           baseLog.With("service", "CatalogService"),
		categoryRepo:  categoryRepo,
		groupRepo:     groupRepo,
		unitRepo:      unitRepo,
		instRepo:      instRepo,
		vendorRepo:    vendorRepo,
		deptRepo:      deptRepo,
		lookupRepo:    lookupRepo,
		sysConfigRepo: sysConfigRepo,
		componentRepo: componentRepo,
		qcPlanRepo:    qcPlanRepo,
		auditService:  auditService,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}

// --- categories ---

func (s *catalogService) CreateCategory(ctx context.Context, cat *types.ProductCategory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.categoryRepo.CodeExists(ctx, tx, cat.CategoryCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "category", Field: "category_code", Code: cat.CategoryCode}
		}
		cat.IsActive = true
		if err := s.categoryRepo.Create(ctx, tx, cat); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_categories", cat.ID, types.AuditInsert, nil, cat); err != nil {
			s.log.Warn("CreateCategory: audit record failed", "error", err, "category_id", cat.ID)
		}
		return nil
	})
}

func (s *catalogService) UpdateCategory(ctx context.Context, cat *types.ProductCategory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.categoryRepo.GetByID(ctx, tx, cat.ID)
		if err != nil {
			return notFoundOr(err)
		}
		exists, err := s.categoryRepo.CodeExists(ctx, tx, cat.CategoryCode, &cat.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "category", Field: "category_code", Code: cat.CategoryCode}
		}
		if err := s.categoryRepo.Update(ctx, tx, cat); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_categories", cat.ID, types.AuditUpdate, before, cat); err != nil {
			s.log.Warn("UpdateCategory: audit record failed", "error", err, "category_id", cat.ID)
		}
		return nil
	})
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*types.ProductCategory, error) {
	cat, err := s.categoryRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return cat, nil
}

func (s *catalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*types.ProductCategory, error) {
	return s.categoryRepo.List(ctx, nil, activeOnly)
}

func (s *catalogService) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := s.categoryRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		groups, err := s.groupRepo.CountActiveByCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		comps, err := s.componentRepo.CountByCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if groups+comps > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "category",
				Dependents: groups + comps,
				Reason:     "referenced by active product groups or components",
			}
		}
		before := *cat
		cat.IsActive = false
		if err := s.categoryRepo.Update(ctx, tx, cat); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_categories", cat.ID, types.AuditUpdate, &before, cat); err != nil {
			s.log.Warn("DeactivateCategory: audit record failed", "error", err, "category_id", cat.ID)
		}
		return nil
	})
}

// --- product groups ---

func (s *catalogService) CreateGroup(ctx context.Context, grp *types.ProductGroup) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.categoryRepo.GetActiveByID(ctx, tx, grp.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation([]apperr.FieldError{
					apperr.Fieldf("category_id", "invalid or inactive category"),
				})
			}
			return err
		}
		exists, err := s.groupRepo.CodeExists(ctx, tx, grp.GroupCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "product group", Field: "group_code", Code: grp.GroupCode}
		}
		grp.IsActive = true
		if err := s.groupRepo.Create(ctx, tx, grp); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_groups", grp.ID, types.AuditInsert, nil, grp); err != nil {
			s.log.Warn("CreateGroup: audit record failed", "error", err, "group_id", grp.ID)
		}
		return nil
	})
}

func (s *catalogService) UpdateGroup(ctx context.Context, grp *types.ProductGroup) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.groupRepo.GetByID(ctx, tx, grp.ID)
		if err != nil {
			return notFoundOr(err)
		}
		if _, err := s.categoryRepo.GetActiveByID(ctx, tx, grp.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation([]apperr.FieldError{
					apperr.Fieldf("category_id", "invalid or inactive category"),
				})
			}
			return err
		}
		exists, err := s.groupRepo.CodeExists(ctx, tx, grp.GroupCode, &grp.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "product group", Field: "group_code", Code: grp.GroupCode}
		}
		if err := s.groupRepo.Update(ctx, tx, grp); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_groups", grp.ID, types.AuditUpdate, before, grp); err != nil {
			s.log.Warn("UpdateGroup: audit record failed", "error", err, "group_id", grp.ID)
		}
		return nil
	})
}

func (s *catalogService) GetGroup(ctx context.Context, id uuid.UUID) (*types.ProductGroup, error) {
	grp, err := s.groupRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return grp, nil
}

func (s *catalogService) ListGroups(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]*types.ProductGroup, error) {
	return s.groupRepo.ListByCategory(ctx, nil, categoryID, activeOnly)
}

func (s *catalogService) DeactivateGroup(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grp, err := s.groupRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		comps, err := s.componentRepo.CountByProductGroup(ctx, tx, id)
		if err != nil {
			return err
		}
		if comps > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "product group",
				Dependents: comps,
				Reason:     "referenced by active components",
			}
		}
		before := *grp
		grp.IsActive = false
		if err := s.groupRepo.Update(ctx, tx, grp); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_product_groups", grp.ID, types.AuditUpdate, &before, grp); err != nil {
			s.log.Warn("DeactivateGroup: audit record failed", "error", err, "group_id", grp.ID)
		}
		return nil
	})
}

// --- units ---

func (s *catalogService) CreateUnit(ctx context.Context, unit *types.Unit) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.unitRepo.CodeExists(ctx, tx, unit.UnitCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "unit", Field: "unit_code", Code: unit.UnitCode}
		}
		unit.IsActive = true
		return s.unitRepo.Create(ctx, tx, unit)
	})
}

func (s *catalogService) UpdateUnit(ctx context.Context, unit *types.Unit) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.unitRepo.GetByID(ctx, tx, unit.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.unitRepo.CodeExists(ctx, tx, unit.UnitCode, &unit.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "unit", Field: "unit_code", Code: unit.UnitCode}
		}
		return s.unitRepo.Update(ctx, tx, unit)
	})
}

func (s *catalogService) ListUnits(ctx context.Context, unitType string, activeOnly bool) ([]*types.Unit, error) {
	return s.unitRepo.List(ctx, nil, unitType, activeOnly)
}

func (s *catalogService) DeactivateUnit(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unit, err := s.unitRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		compParams, err := s.componentRepo.CountParamsByUnit(ctx, tx, id)
		if err != nil {
			return err
		}
		planParams, err := s.qcPlanRepo.CountParamsByUnit(ctx, tx, id)
		if err != nil {
			return err
		}
		if compParams+planParams > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "unit",
				Dependents: compParams + planParams,
				Reason:     "referenced by checking parameters",
			}
		}
		unit.IsActive = false
		return s.unitRepo.Update(ctx, tx, unit)
	})
}

// --- instruments ---

func (s *catalogService) CreateInstrument(ctx context.Context, inst *types.Instrument) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.instRepo.CodeExists(ctx, tx, inst.InstrumentCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "instrument", Field: "instrument_code", Code: inst.InstrumentCode}
		}
		if inst.DepartmentID != nil {
			if _, err := s.deptRepo.GetActiveByID(ctx, tx, *inst.DepartmentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation([]apperr.FieldError{
						apperr.Fieldf("department_id", "invalid or inactive department"),
					})
				}
				return err
			}
		}
		inst.IsActive = true
		return s.instRepo.Create(ctx, tx, inst)
	})
}

func (s *catalogService) UpdateInstrument(ctx context.Context, inst *types.Instrument) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.instRepo.GetByID(ctx, tx, inst.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.instRepo.CodeExists(ctx, tx, inst.InstrumentCode, &inst.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "instrument", Field: "instrument_code", Code: inst.InstrumentCode}
		}
		return s.instRepo.Update(ctx, tx, inst)
	})
}

func (s *catalogService) ListInstruments(ctx context.Context, instrumentType string, departmentID *uuid.UUID, activeOnly bool) ([]*types.Instrument, error) {
	return s.instRepo.List(ctx, nil, instrumentType, departmentID, activeOnly)
}

func (s *catalogService) DeactivateInstrument(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := s.instRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		compParams, err := s.componentRepo.CountParamsByInstrument(ctx, tx, id)
		if err != nil {
			return err
		}
		planParams, err := s.qcPlanRepo.CountParamsByInstrument(ctx, tx, id)
		if err != nil {
			return err
		}
		if compParams+planParams > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "instrument",
				Dependents: compParams + planParams,
				Reason:     "referenced by checking parameters",
			}
		}
		inst.IsActive = false
		return s.instRepo.Update(ctx, tx, inst)
	})
}

// --- vendors ---

func validateVendorFields(v *types.Vendor) []apperr.FieldError {
	var fields []apperr.FieldError
	if v.VendorCode == "" {
		fields = append(fields, apperr.Fieldf("vendor_code", "is required"))
	}
	if v.VendorName == "" {
		fields = append(fields, apperr.Fieldf("vendor_name", "is required"))
	}
	if msg := validate.GST(v.GSTNumber); msg != "" {
		fields = append(fields, apperr.Fieldf("gst_number", "%s", msg))
	}
	if msg := validate.PAN(v.PANNumber); msg != "" {
		fields = append(fields, apperr.Fieldf("pan_number", "%s", msg))
	}
	if msg := validate.Pincode(v.Pincode); msg != "" {
		fields = append(fields, apperr.Fieldf("pincode", "%s", msg))
	}
	if msg := validate.Email(v.Email); msg != "" {
		fields = append(fields, apperr.Fieldf("email", "%s", msg))
	}
	if msg := validate.Phone(v.Phone); msg != "" {
		fields = append(fields, apperr.Fieldf("phone", "%s", msg))
	}
	return fields
}

func normalizeVendor(v *types.Vendor) {
	v.GSTNumber = strings.ToUpper(strings.TrimSpace(v.GSTNumber))
	v.PANNumber = strings.ToUpper(strings.TrimSpace(v.PANNumber))
	v.Pincode = strings.TrimSpace(v.Pincode)
	v.Email = strings.TrimSpace(v.Email)
}

func (s *catalogService) CreateVendor(ctx context.Context, vendor *types.Vendor) error {
	normalizeVendor(vendor)
	if err := apperr.Validation(validateVendorFields(vendor)); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.vendorRepo.CodeExists(ctx, tx, vendor.VendorCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "vendor", Field: "vendor_code", Code: vendor.VendorCode}
		}
		vendor.IsActive = true
		if err := s.vendorRepo.Create(ctx, tx, vendor); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_vendors", vendor.ID, types.AuditInsert, nil, vendor); err != nil {
			s.log.Warn("CreateVendor: audit record failed", "error", err, "vendor_id", vendor.ID)
		}
		return nil
	})
}

func (s *catalogService) UpdateVendor(ctx context.Context, vendor *types.Vendor) error {
	normalizeVendor(vendor)
	if err := apperr.Validation(validateVendorFields(vendor)); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.vendorRepo.GetByID(ctx, tx, vendor.ID)
		if err != nil {
			return notFoundOr(err)
		}
		exists, err := s.vendorRepo.CodeExists(ctx, tx, vendor.VendorCode, &vendor.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "vendor", Field: "vendor_code", Code: vendor.VendorCode}
		}
		if err := s.vendorRepo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_vendors", vendor.ID, types.AuditUpdate, before, vendor); err != nil {
			s.log.Warn("UpdateVendor: audit record failed", "error", err, "vendor_id", vendor.ID)
		}
		return nil
	})
}

func (s *catalogService) GetVendor(ctx context.Context, id uuid.UUID) (*types.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return vendor, nil
}

func (s *catalogService) ListVendors(ctx context.Context, vendorType, search string, activeOnly bool) ([]*types.Vendor, error) {
	return s.vendorRepo.List(ctx, nil, vendorType, search, activeOnly)
}

func (s *catalogService) DeactivateVendor(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := s.vendorRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		links, err := s.componentRepo.CountByVendor(ctx, tx, id)
		if err != nil {
			return err
		}
		primaries, err := s.componentRepo.CountByPrimaryVendor(ctx, tx, id)
		if err != nil {
			return err
		}
		if links+primaries > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "vendor",
				Dependents: links + primaries,
				Reason:     "referenced by component vendor links or primary vendor assignments",
			}
		}
		before := *vendor
		vendor.IsActive = false
		if err := s.vendorRepo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_vendors", vendor.ID, types.AuditUpdate, &before, vendor); err != nil {
			s.log.Warn("DeactivateVendor: audit record failed", "error", err, "vendor_id", vendor.ID)
		}
		return nil
	})
}

// --- departments ---

func (s *catalogService) CreateDepartment(ctx context.Context, dept *types.Department) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.deptRepo.CodeExists(ctx, tx, dept.DepartmentCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "department", Field: "department_code", Code: dept.DepartmentCode}
		}
		dept.IsActive = true
		return s.deptRepo.Create(ctx, tx, dept)
	})
}

func (s *catalogService) UpdateDepartment(ctx context.Context, dept *types.Department) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.deptRepo.GetByID(ctx, tx, dept.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.deptRepo.CodeExists(ctx, tx, dept.DepartmentCode, &dept.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "department", Field: "department_code", Code: dept.DepartmentCode}
		}
		return s.deptRepo.Update(ctx, tx, dept)
	})
}

func (s *catalogService) ListDepartments(ctx context.Context, activeOnly bool) ([]*types.Department, error) {
	return s.deptRepo.List(ctx, nil, activeOnly)
}

func (s *catalogService) DeactivateDepartment(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dept, err := s.deptRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		comps, err := s.componentRepo.CountByDepartment(ctx, tx, id)
		if err != nil {
			return err
		}
		instruments, err := s.deptRepo.CountActiveInstruments(ctx, tx, id)
		if err != nil {
			return err
		}
		if comps+instruments > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "department",
				Dependents: comps + instruments,
				Reason:     "referenced by active components or instruments",
			}
		}
		dept.IsActive = false
		return s.deptRepo.Update(ctx, tx, dept)
	})
}

// --- lookups ---

func (s *catalogService) CreateDefectType(ctx context.Context, dt *types.DefectType) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.lookupRepo.DefectCodeExists(ctx, tx, dt.DefectCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "defect type", Field: "defect_code", Code: dt.DefectCode}
		}
		dt.IsActive = true
		return s.lookupRepo.CreateDefectType(ctx, tx, dt)
	})
}

func (s *catalogService) UpdateDefectType(ctx context.Context, dt *types.DefectType) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lookupRepo.GetDefectType(ctx, tx, dt.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.lookupRepo.DefectCodeExists(ctx, tx, dt.DefectCode, &dt.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "defect type", Field: "defect_code", Code: dt.DefectCode}
		}
		return s.lookupRepo.UpdateDefectType(ctx, tx, dt)
	})
}

func (s *catalogService) ListDefectTypes(ctx context.Context, activeOnly bool) ([]*types.DefectType, error) {
	return s.lookupRepo.ListDefectTypes(ctx, nil, activeOnly)
}

func (s *catalogService) CreateRejectionReason(ctx context.Context, rr *types.RejectionReason) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.lookupRepo.ReasonCodeExists(ctx, tx, rr.ReasonCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "rejection reason", Field: "reason_code", Code: rr.ReasonCode}
		}
		rr.IsActive = true
		return s.lookupRepo.CreateRejectionReason(ctx, tx, rr)
	})
}

func (s *catalogService) UpdateRejectionReason(ctx context.Context, rr *types.RejectionReason) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lookupRepo.GetRejectionReason(ctx, tx, rr.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.lookupRepo.ReasonCodeExists(ctx, tx, rr.ReasonCode, &rr.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "rejection reason", Field: "reason_code", Code: rr.ReasonCode}
		}
		return s.lookupRepo.UpdateRejectionReason(ctx, tx, rr)
	})
}

func (s *catalogService) ListRejectionReasons(ctx context.Context, activeOnly bool) ([]*types.RejectionReason, error) {
	return s.lookupRepo.ListRejectionReasons(ctx, nil, activeOnly)
}

func (s *catalogService) CreateLocation(ctx context.Context, loc *types.Location) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.lookupRepo.LocationCodeExists(ctx, tx, loc.LocationCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "location", Field: "location_code", Code: loc.LocationCode}
		}
		loc.IsActive = true
		return s.lookupRepo.CreateLocation(ctx, tx, loc)
	})
}

func (s *catalogService) UpdateLocation(ctx context.Context, loc *types.Location) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lookupRepo.GetLocation(ctx, tx, loc.ID); err != nil {
			return notFoundOr(err)
		}
		exists, err := s.lookupRepo.LocationCodeExists(ctx, tx, loc.LocationCode, &loc.ID)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "location", Field: "location_code", Code: loc.LocationCode}
		}
		return s.lookupRepo.UpdateLocation(ctx, tx, loc)
	})
}

func (s *catalogService) ListLocations(ctx context.Context, activeOnly bool) ([]*types.Location, error) {
	return s.lookupRepo.ListLocations(ctx, nil, activeOnly)
}

// --- system configuration ---

// configValueError checks a raw value against its declared type. Empty string
// means the value is acceptable.
func configValueError(configType, value string) string {
	switch configType {
	case types.ConfigTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return `config_value must be a valid number for type "number"`
		}
	case types.ConfigTypeBoolean:
		if v := strings.ToLower(value); v != "true" && v != "false" {
			return `config_value must be "true" or "false" for type "boolean"`
		}
	case types.ConfigTypeJSON:
		if !json.Valid([]byte(value)) {
			return `config_value must be valid JSON for type "json"`
		}
	}
	return ""
}

func (s *catalogService) ListSystemConfig(ctx context.Context, modules []string) ([]*types.SystemConfig, error) {
	return s.sysConfigRepo.List(ctx, nil, modules)
}

func (s *catalogService) UpdateSystemConfig(ctx context.Context, key string, patch SystemConfigPatch) (*types.SystemConfig, error) {
	if patch.ConfigValue == nil {
		return nil, apperr.Validation([]apperr.FieldError{
			apperr.Fieldf("config_value", "is required"),
		})
	}
	var updated *types.SystemConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := s.sysConfigRepo.GetByKey(ctx, tx, key)
		if err != nil {
			return notFoundOr(err)
		}
		if !cfg.IsEditable {
			return &apperr.ConfigNotEditableError{Key: key}
		}
		effectiveType := cfg.ConfigType
		if patch.ConfigType != "" {
			effectiveType = patch.ConfigType
		}
		if msg := configValueError(effectiveType, *patch.ConfigValue); msg != "" {
			return apperr.Validation([]apperr.FieldError{
				apperr.Fieldf("config_value", "%s", msg),
			})
		}
		before := *cfg
		cfg.ConfigValue = *patch.ConfigValue
		cfg.ConfigType = effectiveType
		if actor, ok := requestdata.GetActor(ctx); ok {
			cfg.UpdatedBy = actor.UserName
		}
		if err := s.sysConfigRepo.Update(ctx, tx, cfg); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_system_config", cfg.ID, types.AuditUpdate, &before, cfg); err != nil {
			s.log.Warn("UpdateSystemConfig: audit record failed", "error", err, "config_key", key)
		}
		updated = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Lookups returns the active rows of every dropdown-backed master in one
// shot.
func (s *catalogService) Lookups(ctx context.Context) (map[string][]LookupRow, error) {
	out := make(map[string][]LookupRow, 6)

	categories, err := s.categoryRepo.List(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		out["categories"] = append(out["categories"], LookupRow{ID: c.ID, Code: c.CategoryCode, Name: c.CategoryName})
	}

	units, err := s.unitRepo.List(ctx, nil, "", true)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		out["units"] = append(out["units"], LookupRow{ID: u.ID, Code: u.UnitCode, Name: u.UnitName})
	}

	instruments, err := s.instRepo.List(ctx, nil, "", nil, true)
	if err != nil {
		return nil, err
	}
	for _, i := range instruments {
		out["instruments"] = append(out["instruments"], LookupRow{ID: i.ID, Code: i.InstrumentCode, Name: i.InstrumentName})
	}

	vendors, err := s.vendorRepo.List(ctx, nil, "", "", true)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		out["vendors"] = append(out["vendors"], LookupRow{ID: v.ID, Code: v.VendorCode, Name: v.VendorName})
	}

	departments, err := s.deptRepo.List(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	for _, d := range departments {
		out["departments"] = append(out["departments"], LookupRow{ID: d.ID, Code: d.DepartmentCode, Name: d.DepartmentName})
	}

	defects, err := s.lookupRepo.ListDefectTypes(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	for _, dt := range defects {
		out["defect_types"] = append(out["defect_types"], LookupRow{ID: dt.ID, Code: dt.DefectCode, Name: dt.DefectName})
	}

	return out, nil
}
