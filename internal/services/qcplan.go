package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/catalog"
	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	samplingrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/sampling"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type StageParameterInput struct {
	ParameterCode      string     `json:"parameter_code"`
	ParameterName      string     `json:"parameter_name"`
	ParameterSequence  int        `json:"parameter_sequence"`
	CheckingType       string     `json:"checking_type"`
	Specification      string     `json:"specification"`
	UnitID             *uuid.UUID `json:"unit_id"`
	NominalValue       *float64   `json:"nominal_value"`
	ToleranceMin       *float64   `json:"tolerance_min"`
	ToleranceMax       *float64   `json:"tolerance_max"`
	InstrumentID       *uuid.UUID `json:"instrument_id"`
	InputType          string     `json:"input_type"`
	IsMandatory        bool       `json:"is_mandatory"`
	AcceptanceCriteria string     `json:"acceptance_criteria"`
}

type StageInput struct {
	StageCode          string                `json:"stage_code"`
	StageName          string                `json:"stage_name"`
	StageType          string                `json:"stage_type"`
	StageSequence      int                   `json:"stage_sequence"`
	InspectionType     string                `json:"inspection_type"`
	SamplingPlanID     *uuid.UUID            `json:"sampling_plan_id"`
	IsMandatory        bool                  `json:"is_mandatory"`
	RequiresInstrument bool                  `json:"requires_instrument"`
	Parameters         []StageParameterInput `json:"parameters"`
}

type QCPlanInput struct {
	PlanCode           string       `json:"plan_code"`
	PlanName           string       `json:"plan_name"`
	PlanType           string       `json:"plan_type"`
	Revision           string       `json:"revision"`
	EffectiveDate      *time.Time   `json:"effective_date"`
	RequiresVisual     bool         `json:"requires_visual"`
	RequiresFunctional bool         `json:"requires_functional"`
	DocumentNumber     string       `json:"document_number"`
	Stages             []StageInput `json:"stages"`
}

type QCPlanPatch struct {
	PlanName           *string       `json:"plan_name"`
	PlanType           *string       `json:"plan_type"`
	Revision           *string       `json:"revision"`
	EffectiveDate      *time.Time    `json:"effective_date"`
	RequiresVisual     *bool         `json:"requires_visual"`
	RequiresFunctional *bool         `json:"requires_functional"`
	DocumentNumber     *string       `json:"document_number"`
	Status             *string       `json:"status"`
	Stages             *[]StageInput `json:"stages"`
}

type QCPlanService interface {
	CreatePlan(ctx context.Context, input QCPlanInput) (*types.QCPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, patch QCPlanPatch) (*types.QCPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*types.QCPlan, error)
	ListPlans(ctx context.Context, status, search string) ([]*types.QCPlan, error)
	DeactivatePlan(ctx context.Context, id uuid.UUID) error
}

type qcPlanService struct {
	db            *gorm.DB
	log           *logger.Logger
	planRepo      qcplanrepo.PlanRepo
	samplingRepo  samplingrepo.PlanRepo
	unitRepo      catalogrepo.UnitRepo
	instRepo      catalogrepo.InstrumentRepo
	componentRepo componentrepo.ComponentRepo
	auditService  AuditService
}

func NewQCPlanService(
	db *gorm.DB,
	baseLog *logger.Logger,
	planRepo qcplanrepo.PlanRepo,
	samplingRepo samplingrepo.PlanRepo,
	unitRepo catalogrepo.UnitRepo,
	instRepo catalogrepo.InstrumentRepo,
	componentRepo componentrepo.ComponentRepo,
	auditService AuditService,
) QCPlanService {
	return &qcPlanService{
		db:            db,
		log:           baseLog.With("service", "QCPlanService"),
		planRepo:      planRepo,
		samplingRepo:  samplingRepo,
		unitRepo:      unitRepo,
		instRepo:      instRepo,
		componentRepo: componentRepo,
		auditService:  auditService,
	}
}

// validateToleranceBand checks the strict ordering min < nominal < max for
// whichever bounds are present.
func validateToleranceBand(prefix string, nominal, min, max *float64) []apperr.FieldError {
	var fields []apperr.FieldError
	if min != nil && max != nil && *min >= *max {
		fields = append(fields, apperr.Fieldf(prefix+".tolerance_min", "must be less than tolerance_max"))
	}
	if nominal != nil {
		if min != nil && *nominal <= *min {
			fields = append(fields, apperr.Fieldf(prefix+".nominal_value", "must be greater than tolerance_min"))
		}
		if max != nil && *nominal >= *max {
			fields = append(fields, apperr.Fieldf(prefix+".nominal_value", "must be less than tolerance_max"))
		}
	}
	return fields
}

// validateStageShape covers everything checkable without the database: stage
// counts, sequence uniqueness, required stage types, parameter shapes.
func validateStageShape(requiresVisual, requiresFunctional bool, stages []StageInput) []apperr.FieldError {
	var fields []apperr.FieldError
	if len(stages) == 0 {
		fields = append(fields, apperr.Fieldf("stages", "at least one inspection stage is required"))
		return fields
	}

	seen := make(map[int]int, len(stages))
	haveType := make(map[string]bool)
	for i, st := range stages {
		prefix := fmt.Sprintf("stages[%d]", i)
		if st.StageName == "" {
			fields = append(fields, apperr.Fieldf(prefix+".stage_name", "is required"))
		}
		if st.StageType == "" {
			fields = append(fields, apperr.Fieldf(prefix+".stage_type", "is required"))
		}
		haveType[st.StageType] = true
		if st.StageSequence < 1 {
			fields = append(fields, apperr.Fieldf(prefix+".stage_sequence", "must be >= 1"))
		} else if prev, dup := seen[st.StageSequence]; dup {
			fields = append(fields, apperr.Fieldf(prefix+".stage_sequence",
				"duplicate sequence %d, already used by stages[%d]", st.StageSequence, prev))
		} else {
			seen[st.StageSequence] = i
		}

		switch st.InspectionType {
		case types.InspectionTypeSampling:
			if st.SamplingPlanID == nil {
				fields = append(fields, apperr.Fieldf(prefix+".sampling_plan_id", "is required for sampling inspection"))
			}
		case types.InspectionType100Percent:
			if st.SamplingPlanID != nil {
				fields = append(fields, apperr.Fieldf(prefix+".sampling_plan_id", "must be empty for 100_percent inspection"))
			}
		default:
			fields = append(fields, apperr.Fieldf(prefix+".inspection_type", "must be sampling or 100_percent"))
		}

		if len(st.Parameters) == 0 {
			fields = append(fields, apperr.Fieldf(prefix+".parameters", "at least one parameter is required"))
		}
		for j, p := range st.Parameters {
			pp := fmt.Sprintf("%s.parameters[%d]", prefix, j)
			if p.ParameterName == "" {
				fields = append(fields, apperr.Fieldf(pp+".parameter_name", "is required"))
			}
			if p.CheckingType == "" {
				fields = append(fields, apperr.Fieldf(pp+".checking_type", "is required"))
			}
			if p.InputType == "measurement" && p.UnitID == nil {
				fields = append(fields, apperr.Fieldf(pp+".unit_id", "is required for measurement parameters"))
			}
			fields = append(fields, validateToleranceBand(pp, p.NominalValue, p.ToleranceMin, p.ToleranceMax)...)
		}
	}

	if requiresVisual && !haveType[types.CheckingTypeVisual] {
		fields = append(fields, apperr.Fieldf("stages", "plan requires a visual stage but none is defined"))
	}
	if requiresFunctional && !haveType[types.CheckingTypeFunctional] {
		fields = append(fields, apperr.Fieldf("stages", "plan requires a functional stage but none is defined"))
	}
	return fields
}

// validateStageRefs resolves every sampling plan, unit and instrument a stage
// set references, appending one field error per dead reference. Lookups are
// deduplicated so a unit shared by ten parameters is hit once.
func (s *qcPlanService) validateStageRefs(ctx context.Context, tx *gorm.DB, stages []StageInput) ([]apperr.FieldError, error) {
	var fields []apperr.FieldError
	planOK := make(map[uuid.UUID]bool)
	unitOK := make(map[uuid.UUID]bool)
	instOK := make(map[uuid.UUID]bool)

	for i, st := range stages {
		prefix := fmt.Sprintf("stages[%d]", i)
		if st.SamplingPlanID != nil {
			id := *st.SamplingPlanID
			if _, checked := planOK[id]; !checked {
				_, err := s.samplingRepo.GetActiveByID(ctx, tx, id)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				planOK[id] = err == nil
			}
			if !planOK[id] {
				fields = append(fields, apperr.Fieldf(prefix+".sampling_plan_id", "sampling plan %s not found or inactive", id))
			}
		}
		for j, p := range st.Parameters {
			pp := fmt.Sprintf("%s.parameters[%d]", prefix, j)
			if p.UnitID != nil {
				id := *p.UnitID
				if _, checked := unitOK[id]; !checked {
					_, err := s.unitRepo.GetActiveByID(ctx, tx, id)
					if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, err
					}
					unitOK[id] = err == nil
				}
				if !unitOK[id] {
					fields = append(fields, apperr.Fieldf(pp+".unit_id", "unit %s not found or inactive", id))
				}
			}
			if p.InstrumentID != nil {
				id := *p.InstrumentID
				if _, checked := instOK[id]; !checked {
					_, err := s.instRepo.GetActiveByID(ctx, tx, id)
					if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, err
					}
					instOK[id] = err == nil
				}
				if !instOK[id] {
					fields = append(fields, apperr.Fieldf(pp+".instrument_id", "instrument %s not found or inactive", id))
				}
			}
		}
	}
	return fields, nil
}

func buildStages(planID uuid.UUID, stages []StageInput) []*types.QCPlanStage {
	rows := make([]*types.QCPlanStage, 0, len(stages))
	for _, st := range stages {
		code := st.StageCode
		if code == "" {
			code = fmt.Sprintf("STG-%02d", st.StageSequence)
		}
		row := &types.QCPlanStage{
			PlanID:             planID,
			StageCode:          code,
			StageName:          st.StageName,
			StageType:          st.StageType,
			StageSequence:      st.StageSequence,
			InspectionType:     st.InspectionType,
			SamplingPlanID:     st.SamplingPlanID,
			IsMandatory:        st.IsMandatory,
			RequiresInstrument: st.RequiresInstrument,
			IsActive:           true,
		}
		for _, p := range st.Parameters {
			row.Parameters = append(row.Parameters, types.QCPlanParameter{
				ParameterCode:      p.ParameterCode,
				ParameterName:      p.ParameterName,
				ParameterSequence:  p.ParameterSequence,
				CheckingType:       p.CheckingType,
				Specification:      p.Specification,
				UnitID:             p.UnitID,
				NominalValue:       p.NominalValue,
				ToleranceMin:       p.ToleranceMin,
				ToleranceMax:       p.ToleranceMax,
				InstrumentID:       p.InstrumentID,
				InputType:          p.InputType,
				IsMandatory:        p.IsMandatory,
				AcceptanceCriteria: p.AcceptanceCriteria,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *qcPlanService) CreatePlan(ctx context.Context, input QCPlanInput) (*types.QCPlan, error) {
	fields := validateStageShape(input.RequiresVisual, input.RequiresFunctional, input.Stages)
	if input.PlanCode == "" {
		fields = append(fields, apperr.Fieldf("plan_code", "is required"))
	}
	if input.PlanName == "" {
		fields = append(fields, apperr.Fieldf("plan_name", "is required"))
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	var created *types.QCPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.planRepo.CodeExists(ctx, tx, input.PlanCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return &apperr.DuplicateCodeError{Entity: "QC plan", Field: "plan_code", Code: input.PlanCode}
		}

		refFields, err := s.validateStageRefs(ctx, tx, input.Stages)
		if err != nil {
			return err
		}
		if err := apperr.Validation(refFields); err != nil {
			return err
		}

		plan := &types.QCPlan{
			PlanCode:           input.PlanCode,
			PlanName:           input.PlanName,
			PlanType:           input.PlanType,
			Revision:           input.Revision,
			EffectiveDate:      input.EffectiveDate,
			InspectionStages:   len(input.Stages),
			RequiresVisual:     input.RequiresVisual,
			RequiresFunctional: input.RequiresFunctional,
			DocumentNumber:     input.DocumentNumber,
			Status:             types.StatusDraft,
			IsActive:           true,
		}
		if err := s.planRepo.Create(ctx, tx, plan); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateCodeError{Entity: "QC plan", Field: "plan_code", Code: plan.PlanCode}
			}
			return err
		}
		if err := s.planRepo.InsertStages(ctx, tx, buildStages(plan.ID, input.Stages)); err != nil {
			return err
		}

		if err := s.auditService.Record(ctx, tx, "qc_plans", plan.ID, types.AuditInsert, nil, plan); err != nil {
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

func (s *qcPlanService) UpdatePlan(ctx context.Context, id uuid.UUID, patch QCPlanPatch) (*types.QCPlan, error) {
	if patch.Status != nil {
		switch *patch.Status {
		case types.StatusDraft, types.StatusActive, types.StatusInactive:
		default:
			return nil, apperr.Validation([]apperr.FieldError{
				apperr.Fieldf("status", "must be one of draft, active, inactive"),
			})
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
		if patch.Revision != nil {
			plan.Revision = *patch.Revision
			now := time.Now().UTC()
			plan.RevisionDate = &now
		}
		if patch.EffectiveDate != nil {
			plan.EffectiveDate = patch.EffectiveDate
		}
		if patch.RequiresVisual != nil {
			plan.RequiresVisual = *patch.RequiresVisual
		}
		if patch.RequiresFunctional != nil {
			plan.RequiresFunctional = *patch.RequiresFunctional
		}
		if patch.DocumentNumber != nil {
			plan.DocumentNumber = *patch.DocumentNumber
		}
		if patch.Status != nil {
			plan.Status = *patch.Status
		}

		// Stage replacement re-validates the whole plan shape against the
		// patched requires_* flags; nothing is deleted until it passes.
		if patch.Stages != nil {
			fields := validateStageShape(plan.RequiresVisual, plan.RequiresFunctional, *patch.Stages)
			if err := apperr.Validation(fields); err != nil {
				return err
			}
			refFields, err := s.validateStageRefs(ctx, tx, *patch.Stages)
			if err != nil {
				return err
			}
			if err := apperr.Validation(refFields); err != nil {
				return err
			}
			if err := s.planRepo.DeleteStages(ctx, tx, plan.ID); err != nil {
				return err
			}
			if err := s.planRepo.InsertStages(ctx, tx, buildStages(plan.ID, *patch.Stages)); err != nil {
				return err
			}
			plan.InspectionStages = len(*patch.Stages)
		}

		if err := s.planRepo.Update(ctx, tx, plan); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_plans", plan.ID, types.AuditUpdate, &before, plan); err != nil {
			s.log.Warn("UpdatePlan: audit record failed", "error", err, "plan_id", plan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, nil, id)
}

func (s *qcPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*types.QCPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *qcPlanService) ListPlans(ctx context.Context, status, search string) ([]*types.QCPlan, error) {
	return s.planRepo.List(ctx, nil, status, search)
}

// DeactivatePlan retires a draft plan. Draft is the only status it acts on:
// an active plan first has to be superseded by activating its successor, and
// a plan wired to live components never goes away underneath them.
func (s *qcPlanService) DeactivatePlan(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.planRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if plan.Status != types.StatusDraft {
			return apperr.Validation([]apperr.FieldError{
				apperr.Fieldf("status", "only draft plans can be deactivated, current status is %s", plan.Status),
			})
		}

		count, err := s.componentRepo.CountByQCPlan(ctx, tx, plan.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return &apperr.ReferentialConflictError{
				Entity:     "QC plan",
				Dependents: count,
				Reason:     "referenced by active components",
			}
		}

		before := *plan
		plan.Status = types.StatusSuperseded
		plan.IsActive = false
		if err := s.planRepo.Update(ctx, tx, plan); err != nil {
			return err
		}
		if err := s.auditService.Record(ctx, tx, "qc_plans", plan.ID, types.AuditUpdate, &before, plan); err != nil {
			s.log.Warn("DeactivatePlan: audit record failed", "error", err, "plan_id", plan.ID)
		}
		return nil
	})
}
