package qcplan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type PlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.QCPlan) error
	Update(ctx context.Context, tx *gorm.DB, plan *types.QCPlan) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QCPlan, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QCPlan, error)
	List(ctx context.Context, tx *gorm.DB, status, search string) ([]*types.QCPlan, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)

	InsertStages(ctx context.Context, tx *gorm.DB, stages []*types.QCPlanStage) error
	DeleteStages(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
	CountStagesBySamplingPlan(ctx context.Context, tx *gorm.DB, samplingPlanID uuid.UUID) (int64, error)
	CountParamsByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error)
	CountParamsByInstrument(ctx context.Context, tx *gorm.DB, instrumentID uuid.UUID) (int64, error)
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "QCPlanRepo")}
}

func (r *planRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.QCPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) Update(ctx context.Context, tx *gorm.DB, plan *types.QCPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Stages").Save(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QCPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.QCPlan
	if err := transaction.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage_sequence") }).
		Preload("Stages.Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("parameter_sequence") }).
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QCPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.QCPlan
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context, tx *gorm.DB, status, search string) ([]*types.QCPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QCPlan
	q := transaction.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage_sequence") }).
		Preload("Stages.Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("parameter_sequence") }).
		Order("plan_code")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(plan_code) LIKE LOWER(?) OR LOWER(plan_name) LIKE LOWER(?)", pattern, pattern)
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
		Model(&types.QCPlan{}).
		Where("LOWER(plan_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *planRepo) InsertStages(ctx context.Context, tx *gorm.DB, stages []*types.QCPlanStage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(stages) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&stages).Error
}

func (r *planRepo) DeleteStages(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	// Parameters cascade from stages via the FK; delete stages explicitly.
	if err := transaction.WithContext(ctx).
		Where("qc_plan_stage_id IN (?)", transaction.
			Model(&types.QCPlanStage{}).
			Select("id").
			Where("qc_plan_id = ?", planID)).
		Delete(&types.QCPlanParameter{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("qc_plan_id = ?", planID).
		Delete(&types.QCPlanStage{}).Error
}

func (r *planRepo) CountStagesBySamplingPlan(ctx context.Context, tx *gorm.DB, samplingPlanID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QCPlanStage{}).
		Where("sampling_plan_id = ?", samplingPlanID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *planRepo) CountParamsByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QCPlanParameter{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *planRepo) CountParamsByInstrument(ctx context.Context, tx *gorm.DB, instrumentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QCPlanParameter{}).
		Where("instrument_id = ?", instrumentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
