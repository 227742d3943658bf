package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type DepartmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, dept *types.Department) error
	Update(ctx context.Context, tx *gorm.DB, dept *types.Department) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Department, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Department, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Department, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
	CountActiveInstruments(ctx context.Context, tx *gorm.DB, departmentID uuid.UUID) (int64, error)
}

type departmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDepartmentRepo(db *gorm.DB, baseLog *logger.Logger) DepartmentRepo {
	return &departmentRepo{db: db, log: baseLog.With("repo", "DepartmentRepo")}
}

func (r *departmentRepo) Create(ctx context.Context, tx *gorm.DB, dept *types.Department) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) Update(ctx context.Context, tx *gorm.DB, dept *types.Department) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var dept types.Department
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var dept types.Department
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Department
	q := transaction.WithContext(ctx).Order("department_code")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *departmentRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Department{}).
		Where("LOWER(department_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *departmentRepo) CountActiveInstruments(ctx context.Context, tx *gorm.DB, departmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Instrument{}).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
