package component

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

// ListFilter narrows the component listing. Zero values mean no filter.
type ListFilter struct {
	CategoryID     *uuid.UUID
	ProductGroupID *uuid.UUID
	VendorID       *uuid.UUID
	Status         string
	QCRequired     *bool
	Search         string
	IncludeDeleted bool
}

type ComponentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, c *types.Component) error
	Update(ctx context.Context, tx *gorm.DB, c *types.Component) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error)
	GetLiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Component, error)
	PartCodeExists(ctx context.Context, tx *gorm.DB, partCode string, excludeID *uuid.UUID) (bool, error)
	ComponentCodeExists(ctx context.Context, tx *gorm.DB, code string) (bool, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, c *types.Component) error

	ReplaceCheckingParameters(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, params []*types.CheckingParameter) error
	ReplaceSpecifications(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, specs []*types.Specification) error
	ReplaceVendorLinks(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, links []*types.VendorLink) error

	CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error)
	CountByProductGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error)
	CountByQCPlan(ctx context.Context, tx *gorm.DB, qcPlanID uuid.UUID) (int64, error)
	CountBySamplingPlan(ctx context.Context, tx *gorm.DB, samplingPlanID uuid.UUID) (int64, error)
	CountByVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID) (int64, error)
	CountByPrimaryVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID) (int64, error)
	CountByDepartment(ctx context.Context, tx *gorm.DB, departmentID uuid.UUID) (int64, error)
	CountParamsByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error)
	CountParamsByInstrument(ctx context.Context, tx *gorm.DB, instrumentID uuid.UUID) (int64, error)
}

type componentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
	return &componentRepo{db: db, log: baseLog.With("repo", "ComponentRepo")}
}

func (r *componentRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Component) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(c).Error
}

func (r *componentRepo) Update(ctx context.Context, tx *gorm.DB, c *types.Component) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Omit("CheckingParameters", "Specifications", "VendorLinks", "Documents").
		Save(c).Error
}

func preloadChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("CheckingParameters", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("VendorLinks").
		Preload("Documents", "is_current = ?", true)
}

func (r *componentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Component
	if err := preloadChildren(transaction.WithContext(ctx)).
		Where("id = ?", id).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *componentRepo) GetLiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Component
	if err := preloadChildren(transaction.WithContext(ctx)).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *componentRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Component
	q := transaction.WithContext(ctx).Order("part_code")
	if !filter.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ProductGroupID != nil {
		q = q.Where("product_group_id = ?", *filter.ProductGroupID)
	}
	if filter.VendorID != nil {
		q = q.Where("id IN (?)", transaction.
			Model(&types.VendorLink{}).
			Select("component_id").
			Where("vendor_id = ?", *filter.VendorID))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.QCRequired != nil {
		q = q.Where("qc_required = ?", *filter.QCRequired)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("LOWER(part_code) LIKE LOWER(?) OR LOWER(part_name) LIKE LOWER(?) OR LOWER(component_code) LIKE LOWER(?)", pattern, pattern, pattern)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *componentRepo) PartCodeExists(ctx context.Context, tx *gorm.DB, partCode string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Component{}).
		Where("LOWER(part_code) = LOWER(?) AND is_deleted = ?", partCode, false)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *componentRepo) ComponentCodeExists(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Component{}).
		Where("LOWER(component_code) = LOWER(?)", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *componentRepo) SoftDelete(ctx context.Context, tx *gorm.DB, c *types.Component) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(c).
		Select("is_deleted", "deleted_at", "deleted_by", "status", "updated_at").
		Updates(map[string]any{
			"is_deleted": c.IsDeleted,
			"deleted_at": c.DeletedAt,
			"deleted_by": c.DeletedBy,
			"status":     c.Status,
			"updated_at": c.UpdatedAt,
		}).Error
}

func (r *componentRepo) ReplaceCheckingParameters(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, params []*types.CheckingParameter) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&types.CheckingParameter{}).Error; err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&params).Error
}

func (r *componentRepo) ReplaceSpecifications(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, specs []*types.Specification) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&types.Specification{}).Error; err != nil {
		return err
	}
	if len(specs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&specs).Error
}

func (r *componentRepo) ReplaceVendorLinks(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, links []*types.VendorLink) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&types.VendorLink{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&links).Error
}

func (r *componentRepo) countLive(ctx context.Context, tx *gorm.DB, cond string, arg any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Component{}).
		Where("is_deleted = ?", false).
		Where(cond, arg).
		Count(&count).Error
	return count, err
}

func (r *componentRepo) CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "category_id = ?", categoryID)
}

func (r *componentRepo) CountByProductGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "product_group_id = ?", groupID)
}

func (r *componentRepo) CountByQCPlan(ctx context.Context, tx *gorm.DB, qcPlanID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "qc_plan_id = ?", qcPlanID)
}

func (r *componentRepo) CountBySamplingPlan(ctx context.Context, tx *gorm.DB, samplingPlanID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "default_sampling_plan_id = ?", samplingPlanID)
}

func (r *componentRepo) CountByPrimaryVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "primary_vendor_id = ?", vendorID)
}

func (r *componentRepo) CountByDepartment(ctx context.Context, tx *gorm.DB, departmentID uuid.UUID) (int64, error) {
	return r.countLive(ctx, tx, "department_id = ?", departmentID)
}

func (r *componentRepo) CountByVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.VendorLink{}).
		Joins("JOIN qc_component_master ON qc_component_master.id = qc_component_vendors.component_id").
		Where("qc_component_vendors.vendor_id = ? AND qc_component_master.is_deleted = ?", vendorID, false).
		Count(&count).Error
	return count, err
}

func (r *componentRepo) CountParamsByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.CheckingParameter{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error
	return count, err
}

func (r *componentRepo) CountParamsByInstrument(ctx context.Context, tx *gorm.DB, instrumentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.CheckingParameter{}).
		Where("instrument_id = ?", instrumentID).
		Count(&count).Error
	return count, err
}
