package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type AuditRepo interface {
	InsertLog(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) error
	InsertHistory(ctx context.Context, tx *gorm.DB, rows []*types.ComponentHistory) error
	ListLogs(ctx context.Context, tx *gorm.DB, tableName string, recordID *uuid.UUID, limit int) ([]*types.AuditLog, error)
	ListHistory(ctx context.Context, tx *gorm.DB, componentID uuid.UUID) ([]*types.ComponentHistory, error)
}

type auditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return &auditRepo{db: db, log: baseLog.With("repo", "AuditRepo")}
}

func (r *auditRepo) InsertLog(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) InsertHistory(ctx context.Context, tx *gorm.DB, rows []*types.ComponentHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *auditRepo) ListLogs(ctx context.Context, tx *gorm.DB, tableName string, recordID *uuid.UUID, limit int) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AuditLog
	q := transaction.WithContext(ctx).Order("action_timestamp DESC")
	if tableName != "" {
		q = q.Where("table_name = ?", tableName)
	}
	if recordID != nil {
		q = q.Where("record_id = ?", *recordID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *auditRepo) ListHistory(ctx context.Context, tx *gorm.DB, componentID uuid.UUID) ([]*types.ComponentHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ComponentHistory
	if err := transaction.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("changed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
