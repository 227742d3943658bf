package component

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.ComponentDocument) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ComponentDocument, error)
	ListByComponent(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, currentOnly bool) ([]*types.ComponentDocument, error)
	MarkSuperseded(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, documentType string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "ComponentDocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.ComponentDocument) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ComponentDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var doc types.ComponentDocument
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListByComponent(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, currentOnly bool) ([]*types.ComponentDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ComponentDocument
	q := transaction.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("uploaded_at DESC")
	if currentOnly {
		q = q.Where("is_current = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) MarkSuperseded(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, documentType string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ComponentDocument{}).
		Where("component_id = ? AND document_type = ? AND is_current = ?", componentID, documentType, true).
		Update("is_current", false).Error
}

func (r *documentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ComponentDocument{}).Error
}
