package catalog

import (
	"context"

	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type SystemConfigRepo interface {
	List(ctx context.Context, tx *gorm.DB, modules []string) ([]*types.SystemConfig, error)
	GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.SystemConfig, error)
	Update(ctx context.Context, tx *gorm.DB, cfg *types.SystemConfig) error
}

type systemConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSystemConfigRepo(db *gorm.DB, baseLog *logger.Logger) SystemConfigRepo {
	return &systemConfigRepo{db: db, log: baseLog.With("repo", "SystemConfigRepo")}
}

func (r *systemConfigRepo) List(ctx context.Context, tx *gorm.DB, modules []string) ([]*types.SystemConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SystemConfig
	q := transaction.WithContext(ctx).Order("module, config_key")
	if len(modules) > 0 {
		q = q.Where("module IN ?", modules)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *systemConfigRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.SystemConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cfg types.SystemConfig
	if err := transaction.WithContext(ctx).
		Where("config_key = ?", key).
		First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *systemConfigRepo) Update(ctx context.Context, tx *gorm.DB, cfg *types.SystemConfig) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(cfg).Error
}
