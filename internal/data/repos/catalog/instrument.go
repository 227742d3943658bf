package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type InstrumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inst *types.Instrument) error
	Update(ctx context.Context, tx *gorm.DB, inst *types.Instrument) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Instrument, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Instrument, error)
	List(ctx context.Context, tx *gorm.DB, instrumentType string, departmentID *uuid.UUID, activeOnly bool) ([]*types.Instrument, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
}

type instrumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstrumentRepo(db *gorm.DB, baseLog *logger.Logger) InstrumentRepo {
	return &instrumentRepo{db: db, log: baseLog.With("repo", "InstrumentRepo")}
}

func (r *instrumentRepo) Create(ctx context.Context, tx *gorm.DB, inst *types.Instrument) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(inst).Error
}

func (r *instrumentRepo) Update(ctx context.Context, tx *gorm.DB, inst *types.Instrument) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(inst).Error
}

func (r *instrumentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Instrument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var inst types.Instrument
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *instrumentRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Instrument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var inst types.Instrument
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *instrumentRepo) List(ctx context.Context, tx *gorm.DB, instrumentType string, departmentID *uuid.UUID, activeOnly bool) ([]*types.Instrument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Instrument
	q := transaction.WithContext(ctx).Order("instrument_code")
	if instrumentType != "" {
		q = q.Where("instrument_type = ?", instrumentType)
	}
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *instrumentRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Instrument{}).
		Where("LOWER(instrument_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
