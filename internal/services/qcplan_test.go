package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

func f64(v float64) *float64 { return &v }

func validStage(seq int) StageInput {
	planID := uuid.New()
	return StageInput{
		StageName:      "Dimensional Check",
		StageType:      "measurement",
		StageSequence:  seq,
		InspectionType: types.InspectionTypeSampling,
		SamplingPlanID: &planID,
		Parameters: []StageParameterInput{
			{ParameterName: "Shank Diameter", CheckingType: "measurement", InputType: "visual"},
		},
	}
}

func TestValidateStageShape_EmptyPlan(t *testing.T) {
	fields := validateStageShape(false, false, nil)
	if len(fields) != 1 || fields[0].Field != "stages" {
		t.Fatalf("expected a single stages violation, got %v", fields)
	}
}

func TestValidateStageShape_DuplicateSequence(t *testing.T) {
	stages := []StageInput{validStage(1), validStage(2), validStage(1)}
	fields := validateStageShape(false, false, stages)
	found := false
	for _, f := range fields {
		if f.Field == "stages[2].stage_sequence" {
			found = true
			if f.Message != "duplicate sequence 1, already used by stages[0]" {
				t.Errorf("message = %q", f.Message)
			}
		}
	}
	if !found {
		t.Fatalf("duplicate sequence on stages[2] not reported: %v", fields)
	}
}

func TestValidateStageShape_InspectionTypeRules(t *testing.T) {
	sampling := validStage(1)
	sampling.SamplingPlanID = nil

	hundred := validStage(2)
	hundred.InspectionType = types.InspectionType100Percent
	// keeps its sampling plan, which 100_percent forbids

	fields := validateStageShape(false, false, []StageInput{sampling, hundred})
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	if !seen["stages[0].sampling_plan_id"] {
		t.Errorf("missing required-plan violation on stages[0]: %v", fields)
	}
	if !seen["stages[1].sampling_plan_id"] {
		t.Errorf("missing forbidden-plan violation on stages[1]: %v", fields)
	}
}

func TestValidateStageShape_RequiredStageTypes(t *testing.T) {
	stages := []StageInput{validStage(1)}
	fields := validateStageShape(true, true, stages)
	visual, functional := false, false
	for _, f := range fields {
		if f.Field != "stages" {
			continue
		}
		switch f.Message {
		case "plan requires a visual stage but none is defined":
			visual = true
		case "plan requires a functional stage but none is defined":
			functional = true
		}
	}
	if !visual || !functional {
		t.Fatalf("missing required-stage-type violations (visual=%v functional=%v): %v", visual, functional, fields)
	}

	withVisual := validStage(2)
	withVisual.StageType = types.CheckingTypeVisual
	fields = validateStageShape(true, false, []StageInput{validStage(1), withVisual})
	for _, f := range fields {
		if f.Field == "stages" {
			t.Fatalf("visual stage present, no plan-level violation expected: %v", fields)
		}
	}
}

func TestValidateStageShape_ParameterFieldPaths(t *testing.T) {
	st := validStage(1)
	st.Parameters = []StageParameterInput{
		{ParameterName: "Thread Pitch", CheckingType: "measurement", InputType: "visual"},
		{InputType: "measurement"},
	}
	fields := validateStageShape(false, false, []StageInput{st})
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	for _, want := range []string{
		"stages[0].parameters[1].parameter_name",
		"stages[0].parameters[1].checking_type",
		"stages[0].parameters[1].unit_id",
	} {
		if !seen[want] {
			t.Errorf("missing violation %s, got %v", want, fields)
		}
	}
	if seen["stages[0].parameters[0].parameter_name"] {
		t.Errorf("parameters[0] is valid, got %v", fields)
	}
}

func TestValidateToleranceBand(t *testing.T) {
	if fields := validateToleranceBand("p", f64(5), f64(4), f64(6)); len(fields) != 0 {
		t.Fatalf("4 < 5 < 6 is valid, got %v", fields)
	}
	fields := validateToleranceBand("p", nil, f64(6), f64(4))
	if len(fields) != 1 || fields[0].Field != "p.tolerance_min" {
		t.Fatalf("inverted band must fail on tolerance_min, got %v", fields)
	}
	fields = validateToleranceBand("p", f64(4), f64(4), f64(6))
	if len(fields) != 1 || fields[0].Field != "p.nominal_value" {
		t.Fatalf("nominal at the min bound must fail, got %v", fields)
	}
	fields = validateToleranceBand("p", f64(6), f64(4), f64(6))
	if len(fields) != 1 || fields[0].Field != "p.nominal_value" {
		t.Fatalf("nominal at the max bound must fail, got %v", fields)
	}
}

func TestBuildStages_DefaultStageCodes(t *testing.T) {
	explicit := validStage(3)
	explicit.StageCode = "FINAL"
	defaulted := validStage(7)

	rows := buildStages(uuid.New(), []StageInput{explicit, defaulted})
	if rows[0].StageCode != "FINAL" {
		t.Errorf("explicit code overwritten: %q", rows[0].StageCode)
	}
	if rows[1].StageCode != "STG-07" {
		t.Errorf("default code = %q, want STG-07", rows[1].StageCode)
	}
	if !rows[1].IsActive {
		t.Error("built stages must start active")
	}
	if len(rows[1].Parameters) != 1 {
		t.Fatalf("parameters not carried over: %d", len(rows[1].Parameters))
	}
}
