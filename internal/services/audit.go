package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/audit"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/requestdata"
)

// FieldChange is one tracked-field delta of a component mutation.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// AuditService writes the append-only audit trail. Record and
// RecordComponentChange return their error instead of swallowing it; callers
// log the failure and keep going, because an audit miss must never abort the
// mutation it describes.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, tableName string, recordID uuid.UUID, action string, oldData, newData any) error
	RecordComponentChange(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, action string, changes []FieldChange, reason string) error
	ListAudit(ctx context.Context, tableName string, recordID *uuid.UUID, limit int) ([]*types.AuditLog, error)
	ListComponentHistory(ctx context.Context, componentID uuid.UUID) ([]*types.ComponentHistory, error)
}

type auditService struct {
	db        *gorm.DB
	log       *logger.Logger
	auditRepo auditrepo.AuditRepo
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, auditRepo auditrepo.AuditRepo) AuditService {
	return &auditService{
		db:        db,
		log:       baseLog.With("service", "AuditService"),
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, tableName string, recordID uuid.UUID, action string, oldData, newData any) error {
	oldJSON, err := marshalSnapshot(oldData)
	if err != nil {
		return fmt.Errorf("marshal old snapshot: %w", err)
	}
	newJSON, err := marshalSnapshot(newData)
	if err != nil {
		return fmt.Errorf("marshal new snapshot: %w", err)
	}

	var changedJSON datatypes.JSON
	if action == types.AuditUpdate {
		changed := changedFields(oldJSON, newJSON)
		if b, err := json.Marshal(changed); err == nil {
			changedJSON = b
		}
	}

	actor, _ := requestdata.GetActor(ctx)
	entry := &types.AuditLog{
		Table:           tableName,
		RecordID:        recordID,
		Action:          action,
		OldData:         oldJSON,
		NewData:         newJSON,
		ChangedFields:   changedJSON,
		UserID:          actor.UserID,
		UserName:        actor.UserName,
		UserRole:        actor.Role,
		UserIP:          actor.IP,
		ActionTimestamp: time.Now().UTC(),
	}
	return s.auditRepo.InsertLog(ctx, tx, entry)
}

func (s *auditService) RecordComponentChange(ctx context.Context, tx *gorm.DB, componentID uuid.UUID, action string, changes []FieldChange, reason string) error {
	if len(changes) == 0 {
		return nil
	}
	actor, _ := requestdata.GetActor(ctx)
	now := time.Now().UTC()
	rows := make([]*types.ComponentHistory, 0, len(changes))
	for _, ch := range changes {
		rows = append(rows, &types.ComponentHistory{
			ComponentID:  componentID,
			Action:       action,
			FieldName:    ch.Field,
			OldValue:     ch.OldValue,
			NewValue:     ch.NewValue,
			ChangeReason: reason,
			ChangedAt:    now,
			ChangedBy:    actor.UserName,
		})
	}
	return s.auditRepo.InsertHistory(ctx, tx, rows)
}

func (s *auditService) ListAudit(ctx context.Context, tableName string, recordID *uuid.UUID, limit int) ([]*types.AuditLog, error) {
	return s.auditRepo.ListLogs(ctx, nil, tableName, recordID, limit)
}

func (s *auditService) ListComponentHistory(ctx context.Context, componentID uuid.UUID) ([]*types.ComponentHistory, error) {
	return s.auditRepo.ListHistory(ctx, nil, componentID)
}

func marshalSnapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// changedFields diffs two JSON snapshots at the top level and returns the
// sorted list of keys whose values differ.
func changedFields(oldJSON, newJSON datatypes.JSON) []string {
	var oldMap, newMap map[string]json.RawMessage
	if err := json.Unmarshal(oldJSON, &oldMap); err != nil {
		return nil
	}
	if err := json.Unmarshal(newJSON, &newMap); err != nil {
		return nil
	}
	var changed []string
	for key, newVal := range newMap {
		oldVal, ok := oldMap[key]
		if !ok || string(oldVal) != string(newVal) {
			changed = append(changed, key)
		}
	}
	for key := range oldMap {
		if _, ok := newMap[key]; !ok {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}
