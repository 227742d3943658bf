package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

// LookupRepo covers the flat taxonomy tables (defect types, rejection reasons,
// locations) that only ever need list/create/update/deactivate.
type LookupRepo interface {
	CreateDefectType(ctx context.Context, tx *gorm.DB, dt *types.DefectType) error
	UpdateDefectType(ctx context.Context, tx *gorm.DB, dt *types.DefectType) error
	GetDefectType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DefectType, error)
	ListDefectTypes(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.DefectType, error)
	DefectCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)

	CreateRejectionReason(ctx context.Context, tx *gorm.DB, rr *types.RejectionReason) error
	UpdateRejectionReason(ctx context.Context, tx *gorm.DB, rr *types.RejectionReason) error
	GetRejectionReason(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RejectionReason, error)
	ListRejectionReasons(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RejectionReason, error)
	ReasonCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)

	CreateLocation(ctx context.Context, tx *gorm.DB, loc *types.Location) error
	UpdateLocation(ctx context.Context, tx *gorm.DB, loc *types.Location) error
	GetLocation(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error)
	ListLocations(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Location, error)
	LocationCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
}

type lookupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLookupRepo(db *gorm.DB, baseLog *logger.Logger) LookupRepo {
	return &lookupRepo{db: db, log: baseLog.With("repo", "LookupRepo")}
}

func (r *lookupRepo) codeExists(ctx context.Context, tx *gorm.DB, model interface{}, column, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(model).
		Where("LOWER("+column+") = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *lookupRepo) CreateDefectType(ctx context.Context, tx *gorm.DB, dt *types.DefectType) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(dt).Error
}

func (r *lookupRepo) UpdateDefectType(ctx context.Context, tx *gorm.DB, dt *types.DefectType) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(dt).Error
}

func (r *lookupRepo) GetDefectType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DefectType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var dt types.DefectType
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&dt).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *lookupRepo) ListDefectTypes(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.DefectType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DefectType
	q := transaction.WithContext(ctx).Order("defect_code")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lookupRepo) DefectCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	return r.codeExists(ctx, tx, &types.DefectType{}, "defect_code", code, excludeID)
}

func (r *lookupRepo) CreateRejectionReason(ctx context.Context, tx *gorm.DB, rr *types.RejectionReason) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(rr).Error
}

func (r *lookupRepo) UpdateRejectionReason(ctx context.Context, tx *gorm.DB, rr *types.RejectionReason) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(rr).Error
}

func (r *lookupRepo) GetRejectionReason(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RejectionReason, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rr types.RejectionReason
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&rr).Error; err != nil {
		return nil, err
	}
	return &rr, nil
}

func (r *lookupRepo) ListRejectionReasons(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RejectionReason, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.RejectionReason
	q := transaction.WithContext(ctx).Order("reason_code")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lookupRepo) ReasonCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	return r.codeExists(ctx, tx, &types.RejectionReason{}, "reason_code", code, excludeID)
}

func (r *lookupRepo) CreateLocation(ctx context.Context, tx *gorm.DB, loc *types.Location) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(loc).Error
}

func (r *lookupRepo) UpdateLocation(ctx context.Context, tx *gorm.DB, loc *types.Location) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(loc).Error
}

func (r *lookupRepo) GetLocation(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var loc types.Location
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *lookupRepo) ListLocations(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Location
	q := transaction.WithContext(ctx).Order("location_code")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lookupRepo) LocationCodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	return r.codeExists(ctx, tx, &types.Location{}, "location_code", code, excludeID)
}
