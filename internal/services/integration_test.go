package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/audit"
	catalogrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/catalog"
	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	samplingrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/sampling"
	"github.com/titanfab/qcmaster-backend/internal/data/repos/testutil"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/requestdata"
)

type testEnv struct {
	tx        *gorm.DB
	audit     AuditService
	catalog   CatalogService
	sampling  SamplingService
	qcplan    QCPlanService
	component ComponentService
}

// newTestEnv wires the full service stack over one rolled-back transaction.
func newTestEnv(t *testing.T) *testEnv {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)

	categoryRepo := catalogrepo.NewCategoryRepo(tx, log)
	groupRepo := catalogrepo.NewGroupRepo(tx, log)
	unitRepo := catalogrepo.NewUnitRepo(tx, log)
	instRepo := catalogrepo.NewInstrumentRepo(tx, log)
	vendorRepo := catalogrepo.NewVendorRepo(tx, log)
	deptRepo := catalogrepo.NewDepartmentRepo(tx, log)
	lookupRepo := catalogrepo.NewLookupRepo(tx, log)
	sysConfigRepo := catalogrepo.NewSystemConfigRepo(tx, log)
	samplingRepo := samplingrepo.NewPlanRepo(tx, log)
	qcPlanRepo := qcplanrepo.NewPlanRepo(tx, log)
	componentRepo := componentrepo.NewComponentRepo(tx, log)
	documentRepo := componentrepo.NewDocumentRepo(tx, log)
	auditRepo := auditrepo.NewAuditRepo(tx, log)

	auditService := NewAuditService(tx, log, auditRepo)
	return &testEnv{
		tx:    tx,
		audit: auditService,
		catalog: NewCatalogService(tx, log, categoryRepo, groupRepo, unitRepo, instRepo,
			vendorRepo, deptRepo, lookupRepo, sysConfigRepo, componentRepo, qcPlanRepo, auditService),
		sampling:  NewSamplingService(tx, log, samplingRepo, qcPlanRepo, componentRepo, auditService),
		qcplan:    NewQCPlanService(tx, log, qcPlanRepo, samplingRepo, unitRepo, instRepo, componentRepo, auditService),
		component: NewComponentService(tx, log, componentRepo, documentRepo, categoryRepo, groupRepo, unitRepo, instRepo, vendorRepo, deptRepo, qcPlanRepo, samplingRepo, auditService),
	}
}

func actorCtx() context.Context {
	return requestdata.WithActor(context.Background(), requestdata.Actor{
		UserID:   "u-1",
		UserName: "inspector",
		Role:     "admin",
		IP:       "10.0.0.5",
	})
}

func TestSamplingService_CreateAndResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	plan, err := env.sampling.CreatePlan(ctx, SamplingPlanInput{
		PlanCode: testutil.UniqueCode("SP"),
		PlanName: "AQL 1.0",
		PlanType: "single",
		Bands: []BandInput{
			{LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, AcceptNumber: 0, RejectNumber: 1},
			{LotSizeMin: 101, LotSizeMax: 500, SampleSize: 20, AcceptNumber: 1, RejectNumber: 2},
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if len(plan.Bands) != 2 {
		t.Fatalf("created plan carries %d bands", len(plan.Bands))
	}

	res, err := env.sampling.ResolveLotSize(ctx, plan.ID, 250)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.SampleSize != 20 || res.AcceptNumber != 1 || res.RejectNumber != 2 {
		t.Errorf("resolution = %+v", res)
	}

	if _, err := env.sampling.ResolveLotSize(ctx, plan.ID, 0); !errors.Is(err, apperr.ErrInvalidLotSize) {
		t.Errorf("lot size 0: err = %v, want ErrInvalidLotSize", err)
	}

	_, err = env.sampling.ResolveLotSize(ctx, plan.ID, 9000)
	var oor *apperr.LotSizeOutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("lot size 9000: err = %v, want LotSizeOutOfRangeError", err)
	}
	if oor.MaxCovered != 500 {
		t.Errorf("MaxCovered = %d, want 500", oor.MaxCovered)
	}

	if _, err := env.sampling.ResolveLotSize(ctx, uuid.New(), 10); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown plan: err = %v, want ErrNotFound", err)
	}
}

func TestSamplingService_OverlapPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()
	code := testutil.UniqueCode("SP")

	_, err := env.sampling.CreatePlan(ctx, SamplingPlanInput{
		PlanCode: code,
		PlanName: "Broken",
		Bands: []BandInput{
			{LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, RejectNumber: 1},
			{LotSizeMin: 50, LotSizeMax: 200, SampleSize: 8, RejectNumber: 1},
		},
	})
	var overlap *apperr.OverlappingBandsError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %v, want OverlappingBandsError", err)
	}

	var count int64
	if err := env.tx.Model(&types.SamplingPlan{}).Where("plan_code = ?", code).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected plan was persisted (%d rows)", count)
	}
}

func TestSamplingService_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	existing := testutil.SeedSamplingPlan(t, env.tx)
	_, err := env.sampling.CreatePlan(ctx, SamplingPlanInput{
		PlanCode: strings.ToLower(existing.PlanCode),
		PlanName: "Clash",
		Bands:    []BandInput{{LotSizeMin: 1, LotSizeMax: 10, SampleSize: 2, RejectNumber: 1}},
	})
	var dup *apperr.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateCodeError", err)
	}
}

func TestSamplingService_UpdateReplaceBandsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	plan := testutil.SeedSamplingPlan(t, env.tx)
	bad := []BandInput{
		{LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, RejectNumber: 1},
		{LotSizeMin: 100, LotSizeMax: 200, SampleSize: 8, RejectNumber: 1},
	}
	if _, err := env.sampling.UpdatePlan(ctx, plan.ID, SamplingPlanPatch{Bands: &bad}); err == nil {
		t.Fatal("overlapping replacement accepted")
	}

	after, err := env.sampling.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(after.Bands) != 2 || after.Bands[0].SampleSize != 5 || after.Bands[1].SampleSize != 20 {
		t.Fatalf("original bands disturbed: %+v", after.Bands)
	}

	good := []BandInput{{LotSizeMin: 1, LotSizeMax: 1000, SampleSize: 13, AcceptNumber: 0, RejectNumber: 1}}
	updated, err := env.sampling.UpdatePlan(ctx, plan.ID, SamplingPlanPatch{Bands: &good})
	if err != nil {
		t.Fatalf("valid replacement failed: %v", err)
	}
	if len(updated.Bands) != 1 || updated.Bands[0].LotSizeMax != 1000 {
		t.Fatalf("replacement not applied: %+v", updated.Bands)
	}
}

func TestSamplingService_DeactivateConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	plan := testutil.SeedSamplingPlan(t, env.tx)
	cat := testutil.SeedCategory(t, env.tx)
	grp := testutil.SeedGroup(t, env.tx, cat.ID)

	comp := &types.Component{
		ID:                    uuid.New(),
		ComponentCode:         testutil.UniqueCode("CMP"),
		PartCode:              testutil.UniqueCode("PRT"),
		PartName:              "Referencing Part",
		CategoryID:            cat.ID,
		ProductGroupID:        grp.ID,
		DefaultInspectionType: types.InspectionTypeSampling,
		DefaultSamplingPlanID: &plan.ID,
		Status:                types.StatusActive,
	}
	if err := env.tx.Create(comp).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}

	err := env.sampling.DeactivatePlan(ctx, plan.ID)
	var conflict *apperr.ReferentialConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ReferentialConflictError", err)
	}
	if conflict.Dependents < 1 {
		t.Errorf("dependents = %d", conflict.Dependents)
	}
}

func TestQCPlanService_CreateWithStages(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	sp := testutil.SeedSamplingPlan(t, env.tx)
	unit := testutil.SeedUnit(t, env.tx)

	plan, err := env.qcplan.CreatePlan(ctx, QCPlanInput{
		PlanCode:       testutil.UniqueCode("QCP"),
		PlanName:       "Incoming Inspection",
		RequiresVisual: true,
		Stages: []StageInput{
			{
				StageName:      "Visual Check",
				StageType:      types.CheckingTypeVisual,
				StageSequence:  1,
				InspectionType: types.InspectionType100Percent,
				Parameters: []StageParameterInput{
					{ParameterName: "Surface Finish", CheckingType: "visual", InputType: "visual"},
				},
			},
			{
				StageName:      "Dimensional Check",
				StageType:      "measurement",
				StageSequence:  2,
				InspectionType: types.InspectionTypeSampling,
				SamplingPlanID: &sp.ID,
				Parameters: []StageParameterInput{
					{ParameterName: "Shank Diameter", CheckingType: "measurement", InputType: "measurement", UnitID: &unit.ID},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.Status != types.StatusDraft {
		t.Errorf("status = %q, want draft", plan.Status)
	}
	if plan.InspectionStages != 2 {
		t.Errorf("inspection_stages = %d", plan.InspectionStages)
	}
	if len(plan.Stages) != 2 {
		t.Fatalf("stages = %d", len(plan.Stages))
	}
	if plan.Stages[0].StageCode != "STG-01" || plan.Stages[1].StageCode != "STG-02" {
		t.Errorf("stage codes = %q, %q", plan.Stages[0].StageCode, plan.Stages[1].StageCode)
	}
	if len(plan.Stages[1].Parameters) != 1 {
		t.Fatalf("stage parameters not persisted")
	}
}

func TestQCPlanService_CreateRejectsDeadReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	deadPlan := uuid.New()
	deadUnit := uuid.New()
	_, err := env.qcplan.CreatePlan(ctx, QCPlanInput{
		PlanCode: testutil.UniqueCode("QCP"),
		PlanName: "Dead Refs",
		Stages: []StageInput{
			{
				StageName:      "Check",
				StageType:      "measurement",
				StageSequence:  1,
				InspectionType: types.InspectionTypeSampling,
				SamplingPlanID: &deadPlan,
				Parameters: []StageParameterInput{
					{ParameterName: "Length", CheckingType: "measurement", InputType: "measurement", UnitID: &deadUnit},
				},
			},
		},
	})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	seen := map[string]bool{}
	for _, f := range verr.Fields {
		seen[f.Field] = true
	}
	if !seen["stages[0].sampling_plan_id"] || !seen["stages[0].parameters[0].unit_id"] {
		t.Fatalf("missing dead-reference violations: %v", verr.Fields)
	}
}

func TestQCPlanService_StageReplaceAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	sp := testutil.SeedSamplingPlan(t, env.tx)
	plan, err := env.qcplan.CreatePlan(ctx, QCPlanInput{
		PlanCode: testutil.UniqueCode("QCP"),
		PlanName: "Replace Target",
		Stages: []StageInput{
			{
				StageName:      "Original",
				StageType:      "measurement",
				StageSequence:  1,
				InspectionType: types.InspectionTypeSampling,
				SamplingPlanID: &sp.ID,
				Parameters:     []StageParameterInput{{ParameterName: "P1", CheckingType: "visual", InputType: "visual"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	broken := []StageInput{
		{StageName: "No Params", StageType: "measurement", StageSequence: 1, InspectionType: types.InspectionType100Percent},
	}
	if _, err := env.qcplan.UpdatePlan(ctx, plan.ID, QCPlanPatch{Stages: &broken}); err == nil {
		t.Fatal("stage set without parameters accepted")
	}

	after, err := env.qcplan.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(after.Stages) != 1 || after.Stages[0].StageName != "Original" {
		t.Fatalf("original stages disturbed: %+v", after.Stages)
	}
}

func TestQCPlanService_DeactivateDraftOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	active := testutil.SeedQCPlan(t, env.tx, nil)
	err := env.qcplan.DeactivatePlan(ctx, active.ID)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("deactivating an active plan: err = %v, want ValidationError", err)
	}

	sp := testutil.SeedSamplingPlan(t, env.tx)
	draft, err := env.qcplan.CreatePlan(ctx, QCPlanInput{
		PlanCode: testutil.UniqueCode("QCP"),
		PlanName: "Draft",
		Stages: []StageInput{
			{StageName: "S", StageType: "measurement", StageSequence: 1,
				InspectionType: types.InspectionTypeSampling, SamplingPlanID: &sp.ID,
				Parameters: []StageParameterInput{{ParameterName: "P", CheckingType: "visual", InputType: "visual"}}},
		},
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if err := env.qcplan.DeactivatePlan(ctx, draft.ID); err != nil {
		t.Fatalf("deactivate draft: %v", err)
	}
	after, err := env.qcplan.GetPlan(ctx, draft.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if after.Status != types.StatusSuperseded || after.IsActive {
		t.Errorf("after deactivate: status=%q is_active=%v", after.Status, after.IsActive)
	}
}

func seedComponentInput(t *testing.T, env *testEnv) ComponentInput {
	t.Helper()
	cat := testutil.SeedCategory(t, env.tx)
	grp := testutil.SeedGroup(t, env.tx, cat.ID)
	sp := testutil.SeedSamplingPlan(t, env.tx)
	unit := testutil.SeedUnit(t, env.tx)
	vendor := testutil.SeedVendor(t, env.tx)

	return ComponentInput{
		PartCode:              testutil.UniqueCode("PRT"),
		PartName:              "M8x40 Hex Bolt",
		CategoryID:            cat.ID,
		ProductGroupID:        grp.ID,
		QCRequired:            true,
		DefaultInspectionType: types.InspectionTypeSampling,
		DefaultSamplingPlanID: &sp.ID,
		CheckingParameters: []CheckingParameterInput{
			{CheckingPoint: "Shank Diameter", CheckingType: "measurement", UnitID: &unit.ID, SortOrder: 1},
			{CheckingPoint: "Surface Finish", CheckingType: "visual", InputType: "visual", SortOrder: 2},
		},
		Specifications: []SpecificationInput{
			{SpecKey: "Material", SpecValue: "SS304", SortOrder: 1},
		},
		VendorLinks: []VendorLinkInput{
			{VendorID: vendor.ID, IsPrimary: true, IsApproved: true},
		},
	}
}

func TestComponentService_CreateWithChildrenAndAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if comp.ComponentCode == "" {
		t.Error("component code not generated")
	}
	if comp.Status != types.StatusActive {
		t.Errorf("status = %q", comp.Status)
	}
	if len(comp.CheckingParameters) != 2 || len(comp.Specifications) != 1 || len(comp.VendorLinks) != 1 {
		t.Fatalf("children = %d/%d/%d", len(comp.CheckingParameters), len(comp.Specifications), len(comp.VendorLinks))
	}
	if comp.CreatedBy != "inspector" {
		t.Errorf("created_by = %q", comp.CreatedBy)
	}

	logs, err := env.audit.ListAudit(ctx, "qc_component_master", &comp.ID, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != types.AuditInsert {
		t.Fatalf("audit rows = %+v", logs)
	}
	if logs[0].UserName != "inspector" || logs[0].UserIP != "10.0.0.5" {
		t.Errorf("actor not stamped: %+v", logs[0])
	}
}

func TestComponentService_ValidationAggregatesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	input := seedComponentInput(t, env)
	input.PartName = ""
	input.CategoryID = uuid.New()
	input.Specifications = append(input.Specifications, SpecificationInput{SpecKey: "material", SpecValue: "dup"})

	_, err := env.component.Create(ctx, input)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	seen := map[string]bool{}
	for _, f := range verr.Fields {
		seen[f.Field] = true
	}
	for _, want := range []string{"part_name", "category_id", "specifications[1].spec_key", "product_group_id"} {
		if !seen[want] {
			t.Errorf("missing aggregated violation %s: %v", want, verr.Fields)
		}
	}
}

func TestComponentService_PartialPatchLeavesOtherCollections(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	specs := []SpecificationInput{
		{SpecKey: "Material", SpecValue: "SS316", SortOrder: 1},
		{SpecKey: "Finish", SpecValue: "Passivated", SortOrder: 2},
	}
	updated, err := env.component.Update(ctx, comp.ID, ComponentPatch{Specifications: &specs})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Specifications) != 2 {
		t.Fatalf("specifications = %d, want 2", len(updated.Specifications))
	}
	if len(updated.CheckingParameters) != 2 {
		t.Fatalf("checking parameters replaced by a spec-only patch: %d", len(updated.CheckingParameters))
	}
	if len(updated.VendorLinks) != 1 {
		t.Fatalf("vendor links replaced by a spec-only patch: %d", len(updated.VendorLinks))
	}
}

func TestComponentService_UpdateEmitsHistoryBeforePatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	newName := "M8x40 Hex Bolt Gr8.8"
	if _, err := env.component.Update(ctx, comp.ID, ComponentPatch{PartName: &newName}); err != nil {
		t.Fatalf("update: %v", err)
	}

	history, err := env.audit.ListComponentHistory(ctx, comp.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	h := history[0]
	if h.FieldName != "part_name" || h.OldValue != "M8x40 Hex Bolt" || h.NewValue != newName {
		t.Errorf("history = %+v", h)
	}
	if h.ChangedBy != "inspector" {
		t.Errorf("changed_by = %q", h.ChangedBy)
	}
}

func TestComponentService_DuplicateChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	first, err := env.component.Duplicate(ctx, comp.ID)
	if err != nil {
		t.Fatalf("first duplicate: %v", err)
	}
	if first.PartCode != comp.PartCode+"-COPY" {
		t.Errorf("first copy part code = %q", first.PartCode)
	}
	if first.Status != types.StatusDraft {
		t.Errorf("copy status = %q, want draft", first.Status)
	}
	if !strings.HasSuffix(first.PartName, " (Copy)") {
		t.Errorf("copy part name = %q", first.PartName)
	}
	if len(first.Specifications) != 1 || len(first.VendorLinks) != 1 {
		t.Errorf("children not copied: %d specs, %d links", len(first.Specifications), len(first.VendorLinks))
	}

	second, err := env.component.Duplicate(ctx, comp.ID)
	if err != nil {
		t.Fatalf("second duplicate: %v", err)
	}
	if second.PartCode != comp.PartCode+"-COPY-2" {
		t.Errorf("second copy part code = %q", second.PartCode)
	}
}

func TestComponentService_SoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if err := env.component.SoftDelete(ctx, comp.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := env.component.Get(ctx, comp.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted component still readable: %v", err)
	}

	// the row itself survives for the audit trail
	var raw types.Component
	if err := env.tx.Where("id = ?", comp.ID).First(&raw).Error; err != nil {
		t.Fatalf("raw lookup: %v", err)
	}
	if !raw.IsDeleted || raw.Status != types.StatusInactive {
		t.Errorf("soft delete flags: is_deleted=%v status=%q", raw.IsDeleted, raw.Status)
	}

	logs, err := env.audit.ListAudit(ctx, "qc_component_master", &comp.ID, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	var sawDelete bool
	for _, l := range logs {
		if l.Action == types.AuditDelete {
			sawDelete = true
		}
	}
	if !sawDelete {
		t.Error("no DELETE audit entry recorded")
	}
}

func TestComponentService_PartCodeUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	comp, err := env.component.Create(ctx, seedComponentInput(t, env))
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	available, err := env.component.ValidatePartCode(ctx, strings.ToLower(comp.PartCode), nil)
	if err != nil {
		t.Fatalf("validate part code: %v", err)
	}
	if available {
		t.Error("taken part code reported available")
	}

	input := seedComponentInput(t, env)
	input.PartCode = strings.ToLower(comp.PartCode)
	_, err = env.component.Create(ctx, input)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCatalogService_VendorValidationAndNormalization(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	bad := &types.Vendor{
		VendorCode: testutil.UniqueCode("VEN"),
		VendorName: "Bad Fields Pvt Ltd",
		GSTNumber:  "99AAAAA0000A1Z5",
		Pincode:    "012345",
	}
	err := env.catalog.CreateVendor(ctx, bad)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	good := &types.Vendor{
		VendorCode: testutil.UniqueCode("VEN"),
		VendorName: "Precision Forge Works",
		GSTNumber:  "27aabcu9603r1zm",
		PANNumber:  "aabcu9603r",
		Pincode:    "400001",
		IsActive:   true,
	}
	if err := env.catalog.CreateVendor(ctx, good); err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	if good.GSTNumber != "27AABCU9603R1ZM" || good.PANNumber != "AABCU9603R" {
		t.Errorf("fields not normalized: gst=%q pan=%q", good.GSTNumber, good.PANNumber)
	}
}

func TestCatalogService_DeactivateCategoryConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	cat := testutil.SeedCategory(t, env.tx)
	testutil.SeedGroup(t, env.tx, cat.ID)

	err := env.catalog.DeactivateCategory(ctx, cat.ID)
	var conflict *apperr.ReferentialConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ReferentialConflictError", err)
	}
}

func TestCatalogService_DuplicateCategoryCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	cat := testutil.SeedCategory(t, env.tx)
	err := env.catalog.CreateCategory(ctx, &types.ProductCategory{
		CategoryCode: strings.ToLower(cat.CategoryCode),
		CategoryName: "Clash",
		IsActive:     true,
	})
	var dup *apperr.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateCodeError", err)
	}
}

func TestQCPlanService_FreshPlanIsReferenceable(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	sp := testutil.SeedSamplingPlan(t, env.tx)
	plan, err := env.qcplan.CreatePlan(ctx, QCPlanInput{
		PlanCode: testutil.UniqueCode("QCP"),
		PlanName: "Just Created",
		Stages: []StageInput{
			{StageName: "S", StageType: "measurement", StageSequence: 1,
				InspectionType: types.InspectionTypeSampling, SamplingPlanID: &sp.ID,
				Parameters: []StageParameterInput{{ParameterName: "P", CheckingType: "visual", InputType: "visual"}}},
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.Status != types.StatusDraft {
		t.Fatalf("status = %q, want draft", plan.Status)
	}

	input := seedComponentInput(t, env)
	input.QCPlanID = &plan.ID
	comp, err := env.component.Create(ctx, input)
	if err != nil {
		t.Fatalf("component referencing a fresh plan: %v", err)
	}
	if comp.QCPlanID == nil || *comp.QCPlanID != plan.ID {
		t.Errorf("qc_plan_id = %v, want %v", comp.QCPlanID, plan.ID)
	}
}

func TestSamplingService_ScalarPatchKeepsPlanActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	plan := testutil.SeedSamplingPlan(t, env.tx)
	name := "Renamed Plan"
	updated, err := env.sampling.UpdatePlan(ctx, plan.ID, SamplingPlanPatch{PlanName: &name})
	if err != nil {
		t.Fatalf("update plan: %v", err)
	}
	if updated.PlanName != name {
		t.Errorf("plan_name = %q", updated.PlanName)
	}
	if !updated.IsActive {
		t.Error("scalar patch flipped is_active")
	}
}

func TestCatalogService_SystemConfigUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	cfg := &types.SystemConfig{
		ID:          uuid.New(),
		ConfigKey:   testutil.UniqueCode("cfg"),
		ConfigValue: "5",
		ConfigType:  types.ConfigTypeNumber,
		Module:      "sampling",
		IsEditable:  true,
	}
	if err := env.tx.Create(cfg).Error; err != nil {
		t.Fatalf("seed config: %v", err)
	}

	bad := "not-a-number"
	_, err := env.catalog.UpdateSystemConfig(ctx, cfg.ConfigKey, SystemConfigPatch{ConfigValue: &bad})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("bad number: err = %v, want ValidationError", err)
	}

	if _, err := env.catalog.UpdateSystemConfig(ctx, cfg.ConfigKey, SystemConfigPatch{}); err == nil {
		t.Fatal("missing config_value accepted")
	}

	val := "7.5"
	updated, err := env.catalog.UpdateSystemConfig(ctx, cfg.ConfigKey, SystemConfigPatch{ConfigValue: &val})
	if err != nil {
		t.Fatalf("update config: %v", err)
	}
	if updated.ConfigValue != "7.5" || updated.UpdatedBy != "inspector" {
		t.Errorf("updated = %+v", updated)
	}

	logs, err := env.audit.ListAudit(ctx, "qc_system_config", &cfg.ID, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != types.AuditUpdate {
		t.Fatalf("audit rows = %+v", logs)
	}

	if _, err := env.catalog.UpdateSystemConfig(ctx, "no-such-key", SystemConfigPatch{ConfigValue: &val}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown key: err = %v, want ErrNotFound", err)
	}
}

func TestCatalogService_SystemConfigLockedKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx()

	cfg := &types.SystemConfig{
		ID:          uuid.New(),
		ConfigKey:   testutil.UniqueCode("cfg"),
		ConfigValue: "v1",
		ConfigType:  types.ConfigTypeString,
		Module:      "core",
		IsEditable:  false,
	}
	if err := env.tx.Create(cfg).Error; err != nil {
		t.Fatalf("seed config: %v", err)
	}

	v2 := "v2"
	_, err := env.catalog.UpdateSystemConfig(ctx, cfg.ConfigKey, SystemConfigPatch{ConfigValue: &v2})
	var locked *apperr.ConfigNotEditableError
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v, want ConfigNotEditableError", err)
	}

	after, err := env.catalog.ListSystemConfig(ctx, []string{"core"})
	if err != nil {
		t.Fatalf("list config: %v", err)
	}
	for _, c := range after {
		if c.ConfigKey == cfg.ConfigKey && c.ConfigValue != "v1" {
			t.Errorf("locked value changed: %q", c.ConfigValue)
		}
	}
}
