package sampling

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type PlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.SamplingPlan) error
	Update(ctx context.Context, tx *gorm.DB, plan *types.SamplingPlan) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SamplingPlan, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SamplingPlan, error)
	List(ctx context.Context, tx *gorm.DB, planType, search string, activeOnly bool) ([]*types.SamplingPlan, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)

	InsertBands(ctx context.Context, tx *gorm.DB, bands []*types.LotSizeBand) error
	DeleteBands(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
	ListBands(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.LotSizeBand, error)
	FindBandsContaining(ctx context.Context, tx *gorm.DB, planID uuid.UUID, lotSize int) ([]*types.LotSizeBand, error)
	MaxCoveredLotSize(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (int, error)
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "SamplingPlanRepo")}
}

func (r *planRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.SamplingPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) Update(ctx context.Context, tx *gorm.DB, plan *types.SamplingPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Bands").Save(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SamplingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.SamplingPlan
	if err := transaction.WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB { return db.Order("lot_size_min") }).
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SamplingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.SamplingPlan
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context, tx *gorm.DB, planType, search string, activeOnly bool) ([]*types.SamplingPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SamplingPlan
	q := transaction.WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB { return db.Order("lot_size_min") }).
		Order("plan_code")
	if planType != "" {
		q = q.Where("plan_type = ?", planType)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(plan_code) LIKE LOWER(?) OR LOWER(plan_name) LIKE LOWER(?)", pattern, pattern)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.SamplingPlan{}).
		Where("LOWER(plan_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *planRepo) InsertBands(ctx context.Context, tx *gorm.DB, bands []*types.LotSizeBand) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(bands) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&bands).Error
}

func (r *planRepo) DeleteBands(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("sampling_plan_id = ?", planID).
		Delete(&types.LotSizeBand{}).Error
}

func (r *planRepo) ListBands(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.LotSizeBand, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LotSizeBand
	if err := transaction.WithContext(ctx).
		Where("sampling_plan_id = ?", planID).
		Order("lot_size_min").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) FindBandsContaining(ctx context.Context, tx *gorm.DB, planID uuid.UUID, lotSize int) ([]*types.LotSizeBand, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LotSizeBand
	if err := transaction.WithContext(ctx).
		Where("sampling_plan_id = ? AND lot_size_min <= ? AND lot_size_max >= ?", planID, lotSize, lotSize).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) MaxCoveredLotSize(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.LotSizeBand{}).
		Where("sampling_plan_id = ?", planID).
		Select("MAX(lot_size_max)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
