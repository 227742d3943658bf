package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	samplingrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/sampling"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

// BandInput is one lot-size band of a sampling plan create/update request.
type BandInput struct {
	LotSizeMin   int `json:"lot_size_min"`
	LotSizeMax   int `json:"lot_size_max"`
	SampleSize   int `json:"sample_size"`
	AcceptNumber int `json:"accept_number"`
	RejectNumber int `json:"reject_number"`
}

type SamplingPlanInput struct {
	PlanCode        string      `json:"plan_code"`
	PlanName        string      `json:"plan_name"`
	PlanType        string      `json:"plan_type"`
	AQLLevel        string      `json:"aql_level"`
	InspectionLevel string      `json:"inspection_level"`
	Bands           []BandInput `json:"bands"`
}

// SamplingPlanPatch updates scalars; nil fields are left alone. A non-nil
// Bands replaces the whole band set.
type SamplingPlanPatch struct {
	PlanName        *string      `json:"plan_name"`
	PlanType        *string      `json:"plan_type"`
	AQLLevel        *string      `json:"aql_level"`
	InspectionLevel *string      `json:"inspection_level"`
	Bands           *[]BandInput `json:"bands"`
}

// BandResolution is the sampling verdict for one lot.
type BandResolution struct {
	PlanID       uuid.UUID `json:"plan_id"`
	PlanCode     string    `json:"plan_code"`
	LotSize      int       `json:"lot_size"`
	SampleSize   int       `json:"sample_size"`
	AcceptNumber int       `json:"accept_number"`
	RejectNumber int       `json:"reject_number"`
}

type SamplingService interface {
	CreatePlan(ctx context.Context, input SamplingPlanInput) (*types.SamplingPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, patch SamplingPlanPatch) (*types.SamplingPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*types.SamplingPlan, error)
	ListPlans(ctx context.Context, planType, search string, activeOnly bool) ([]*types.SamplingPlan, error)
	DeactivatePlan(ctx context.Context, id uuid.UUID) error
	ResolveLotSize(ctx context.Context, planID uuid.UUID, lotSize int) (*BandResolution, error)
}

type samplingService struct {
	db            *gorm.DB
	log           *logger.Logger
	planRepo      samplingrepo.PlanRepo
	qcPlanRepo    qcplanrepo.PlanRepo
	componentRepo componentrepo.ComponentRepo
	auditService  AuditService
}

func NewSamplingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	planRepo samplingrepo.PlanRepo,
	qcPlanRepo qcplanrepo.PlanRepo,
	componentRepo componentrepo.ComponentRepo,
	auditService AuditService,
) SamplingService {
	return &samplingService{
		db:            db,
		log:           baseLog.With("service", "SamplingService"),
		planRepo:      planRepo,
		qcPlanRepo:    qcPlanRepo,
		componentRepo: componentRepo,
		auditService:  auditService,
	}
}

// validateBands collects every per-band field violation. Overlap is checked
// separately once the individual bands are well formed.
func validateBands(bands []BandInput) []apperr.FieldError {
	var fields []apperr.FieldError
	if len(bands) == 0 {
		fields = append(fields, apperr.Fieldf("bands", "at least one lot size band is required"))
		return fields
	}
	for i, b := range bands {
		prefix := fmt.Sprintf("bands[%d]", i)
		if b.LotSizeMin < 1 {
			fields = append(fields, apperr.Fieldf(prefix+".lot_size_min", "must be >= 1"))
		}
		if b.LotSizeMax <= b.LotSizeMin {
			fields = append(fields, apperr.Fieldf(prefix+".lot_size_max", "must be greater than lot_size_min"))
		}
		if b.SampleSize < 1 {
			fields = append(fields, apperr.Fieldf(prefix+".sample_size", "must be >= 1"))
		}
		if b.AcceptNumber < 0 {
			fields = append(fields, apperr.Fieldf(prefix+".accept_number", "must be >= 0"))
		}
		if b.RejectNumber <= b.AcceptNumber {
			fields = append(fields, apperr.Fieldf(prefix+".reject_number", "must be greater than accept_number"))
		}
	}
	return fields
}

// findOverlap compares every band pair. n stays single digit in practice, so
// the quadratic scan is fine and keeps the reported pair exact.
func findOverlap(bands []BandInput) *apperr.OverlappingBandsError {
	for i := 0; i < len(bands); i++ {
		for j := i + 1; j < len(bands); j++ {
			a, b := bands[i], bands[j]
			if a.LotSizeMax >= b.LotSizeMin && b.LotSizeMax >= a.LotSizeMin {
				return &apperr.OverlappingBandsError{
					IndexA: i, IndexB: j,
					MinA: a.LotSizeMin, MaxA: a.LotSizeMax,
					MinB: b.LotSizeMin, MaxB: b.LotSizeMax,
				}
			}
		}
	}
	return nil
}

func (s *samplingService) validateBandSet(bands []BandInput) error {
	if fields := validateBands(bands); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	if overlap := findOverlap(bands); overlap != nil {
		return overlap
	}
	return nil
}

func (s *samplingService) CreatePlan(ctx context.Context, input SamplingPlanInput) (*types.SamplingPlan, error) {
	var fields []apperr.FieldError
	if input.PlanCode == "" {
		fields = append(fields, apperr.Fieldf("plan_code", "is required"))
	}
	if input.PlanName == "" {
		fields = append(fields, apperr.Fieldf("plan_name", "is required"))
	}
	fields = append(fields, validateBands(input.Bands)...)
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}
	if overlap := findOverlap(input.Bands); overlap != nil {
		return nil, overlap
	}

	var created *types.SamplingPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.planRepo.CodeExists(ctx, tx, input.PlanCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "sampling plan", Field: "plan_code", Code: input.PlanCode}
		}

		plan := &types.SamplingPlan{
			PlanCode:        input.PlanCode,
			PlanName:        input.PlanName,
			PlanType:        input.PlanType,
			AQLLevel:        input.AQLLevel,
			InspectionLevel: input.InspectionLevel,
			IsActive:        true,
		}
		if err := s.planRepo.Create(ctx, tx, plan); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateCodeError{Entity: "sampling plan", Field: "plan_code", Code: plan.PlanCode}
			}
			return err
		}
		bands := make([]*types.LotSizeBand, 0, len(input.Bands))
		for _, b := range input.Bands {
			bands = append(bands, &types.LotSizeBand{
				PlanID:       plan.ID,
				LotSizeMin:   b.LotSizeMin,
				LotSizeMax:   b.LotSizeMax,
				SampleSize:   b.SampleSize,
				AcceptNumber: b.AcceptNumber,
				RejectNumber: b.RejectNumber,
			})
		}
		if err := s.planRepo.InsertBands(ctx, tx, bands); err != nil {
			return err
		}

		if err := s.auditService.Record(ctx, tx, "qc_sampling_plans", plan.ID, types.AuditInsert, nil, plan); err != nil {
			s.log.Warn("CreatePlan: audit record failed", "error", err, "plan_id", plan.ID)
		}
		created = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, nil, created.ID)
}

func (s *samplingService) UpdatePlan(ctx context.Context, id uuid.UUID, patch SamplingPlanPatch) (*types.SamplingPlan, error) {
	if patch.Bands != nil {
		if err := s.validateBandSet(*patch.Bands); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.planRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		before := *plan

		if patch.PlanName != nil {
			plan.PlanName = *patch.PlanName
		}
		if patch.PlanType != nil {
			plan.PlanType = *patch.PlanType
		}
		if patch.AQLLevel != nil {
			plan.AQLLevel = *patch.AQLLevel
		}
		if patch.InspectionLevel != nil {
			plan.InspectionLevel = *patch.InspectionLevel
		}
		if err := s.planRepo.Update(ctx, tx, plan); err != nil {
			return err
		}

		if patch.Bands != nil {
			if err := s.planRepo.DeleteBands(ctx, tx, plan.ID); err != nil {
				return err
			}
			bands := make([]*types.LotSizeBand, 0, len(*patch.Bands))
			for _, b := range *patch.Bands {
				bands = append(bands, &types.LotSizeBand{
					PlanID:       plan.ID,
					LotSizeMin:   b.LotSizeMin,
					LotSizeMax:   b.LotSizeMax,
					SampleSize:   b.SampleSize,
					AcceptNumber: b.AcceptNumber,
					RejectNumber: b.RejectNumber,
				})
			}
			if err := s.planRepo.InsertBands(ctx, tx, bands); err != nil {
				return err
			}
		}

		if err := s.auditService.Record(ctx, tx, "qc_sampling_plans", plan.ID, types.AuditUpdate, &before, plan); err != nil {
			s.log.Warn("UpdatePlan: audit record failed", "error", err, "plan_id", plan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, nil, id)
}

func (s *samplingService) GetPlan(ctx context.Context, id uuid.UUID) (*types.SamplingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *samplingService) ListPlans(ctx context.Context, planType, search string, activeOnly bool) ([]*types.SamplingPlan, error) {
	return s.planRepo.List(ctx, nil, planType, search, activeOnly)
}

func (s *samplingService) DeactivatePlan(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.planRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		componentCount, err := s.componentRepo.CountBySamplingPlan(ctx, tx, plan.ID)
		if err != nil {
			return err
		}
		stageCount, err := s.qcPlanRepo.CountStagesBySamplingPlan(ctx, tx, plan.ID)
		if err != nil {
			return err
		}
		if componentCount+stageCount > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "sampling plan",
				Dependents: componentCount + stageCount,
				Reason:     "referenced by components or QC plan stages",
			}
		}

		before := *plan
		plan.IsActive = false
		if err := s.planRepo.Update(ctx, tx, plan); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_sampling_plans", plan.ID, types.AuditUpdate, &before, plan); err != nil {
			s.log.Warn("DeactivatePlan: audit record failed", "error", err, "plan_id", plan.ID)
		}
		return nil
	})
}

// ResolveLotSize maps a lot size onto exactly one band of the plan. Zero
// matching bands is a client error carrying the plan's maximum coverage; two
// matching bands means the non-overlap invariant was violated on some write
// path and is reported as an internal fault, never resolved first-match.
func (s *samplingService) ResolveLotSize(ctx context.Context, planID uuid.UUID, lotSize int) (*BandResolution, error) {
	if lotSize < 1 {
		return nil, apperr.ErrInvalidLotSize
	}

	plan, err := s.planRepo.GetActiveByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	matches, err := s.planRepo.FindBandsContaining(ctx, nil, plan.ID, lotSize)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 1:
		band := matches[0]
		return &BandResolution{
			PlanID:       plan.ID,
			PlanCode:     plan.PlanCode,
			LotSize:      lotSize,
			SampleSize:   band.SampleSize,
			AcceptNumber: band.AcceptNumber,
			RejectNumber: band.RejectNumber,
		}, nil
	case 0:
		maxCovered, err := s.planRepo.MaxCoveredLotSize(ctx, nil, plan.ID)
		if err != nil {
			return nil, err
		}
		return nil, &apperr.LotSizeOutOfRangeError{
			PlanCode:   plan.PlanCode,
			LotSize:    lotSize,
			MaxCovered: maxCovered,
		}
	default:
		s.log.Error("ResolveLotSize: multiple bands match one lot size",
			"plan_id", plan.ID, "plan_code", plan.PlanCode, "lot_size", lotSize, "matches", len(matches))
		return nil, &apperr.ConsistencyError{
			Detail: fmt.Sprintf("plan %s has %d bands matching lot size %d", plan.PlanCode, len(matches), lotSize),
		}
	}
}
