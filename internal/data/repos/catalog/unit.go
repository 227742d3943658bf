package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type UnitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, unit *types.Unit) error
	Update(ctx context.Context, tx *gorm.DB, unit *types.Unit) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Unit, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Unit, error)
	List(ctx context.Context, tx *gorm.DB, unitType string, activeOnly bool) ([]*types.Unit, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
}

type unitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUnitRepo(db *gorm.DB, baseLog *logger.Logger) UnitRepo {
	return &unitRepo{db: db, log: baseLog.With("repo", "UnitRepo")}
}

func (r *unitRepo) Create(ctx context.Context, tx *gorm.DB, unit *types.Unit) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(unit).Error
}

func (r *unitRepo) Update(ctx context.Context, tx *gorm.DB, unit *types.Unit) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var unit types.Unit
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var unit types.Unit
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) List(ctx context.Context, tx *gorm.DB, unitType string, activeOnly bool) ([]*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Unit
	q := transaction.WithContext(ctx).Order("unit_type, unit_name")
	if unitType != "" {
		q = q.Where("unit_type = ?", unitType)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *unitRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Unit{}).
		Where("LOWER(unit_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
