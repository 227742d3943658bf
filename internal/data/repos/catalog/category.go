package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cat *types.ProductCategory) error
	Update(ctx context.Context, tx *gorm.DB, cat *types.ProductCategory) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductCategory, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductCategory, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.ProductCategory, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, cat *types.ProductCategory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(cat).Error
}

func (r *categoryRepo) Update(ctx context.Context, tx *gorm.DB, cat *types.ProductCategory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(cat).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cat types.ProductCategory
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cat types.ProductCategory
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.ProductCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProductCategory
	q := transaction.WithContext(ctx).Order("sort_order, category_name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.ProductCategory{}).
		Where("LOWER(category_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type GroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, grp *types.ProductGroup) error
	Update(ctx context.Context, tx *gorm.DB, grp *types.ProductGroup) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductGroup, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductGroup, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, activeOnly bool) ([]*types.ProductGroup, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
	CountActiveByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: baseLog.With("repo", "GroupRepo")}
}

func (r *groupRepo) Create(ctx context.Context, tx *gorm.DB, grp *types.ProductGroup) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(grp).Error
}

func (r *groupRepo) Update(ctx context.Context, tx *gorm.DB, grp *types.ProductGroup) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(grp).Error
}

func (r *groupRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var grp types.ProductGroup
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&grp).Error; err != nil {
		return nil, err
	}
	return &grp, nil
}

func (r *groupRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var grp types.ProductGroup
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&grp).Error; err != nil {
		return nil, err
	}
	return &grp, nil
}

func (r *groupRepo) ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, activeOnly bool) ([]*types.ProductGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProductGroup
	q := transaction.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("sort_order, group_name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *groupRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.ProductGroup{}).
		Where("LOWER(group_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepo) CountActiveByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProductGroup{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
