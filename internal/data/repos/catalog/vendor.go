package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type VendorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vendor *types.Vendor) error
	Update(ctx context.Context, tx *gorm.DB, vendor *types.Vendor) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vendor, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vendor, error)
	GetActiveByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Vendor, error)
	List(ctx context.Context, tx *gorm.DB, vendorType, search string, activeOnly bool) ([]*types.Vendor, error)
	CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error)
}

type vendorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVendorRepo(db *gorm.DB, baseLog *logger.Logger) VendorRepo {
	return &vendorRepo{db: db, log: baseLog.With("repo", "VendorRepo")}
}

func (r *vendorRepo) Create(ctx context.Context, tx *gorm.DB, vendor *types.Vendor) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepo) Update(ctx context.Context, tx *gorm.DB, vendor *types.Vendor) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(vendor).Error
}

func (r *vendorRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vendor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var vendor types.Vendor
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vendor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var vendor types.Vendor
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepo) GetActiveByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Vendor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Vendor
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorRepo) List(ctx context.Context, tx *gorm.DB, vendorType, search string, activeOnly bool) ([]*types.Vendor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Vendor
	q := transaction.WithContext(ctx).Order("vendor_code")
	if vendorType != "" {
		q = q.Where("vendor_type = ?", vendorType)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(vendor_code) LIKE LOWER(?) OR LOWER(vendor_name) LIKE LOWER(?)", pattern, pattern)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorRepo) CodeExists(ctx context.Context, tx *gorm.DB, code string, excludeID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Vendor{}).
		Where("LOWER(vendor_code) = LOWER(?)", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
