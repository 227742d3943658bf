package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

func validComponentInput() ComponentInput {
	planID := uuid.New()
	return ComponentInput{
		PartCode:              "HX-M8-040",
		PartName:              "M8x40 Hex Bolt",
		CategoryID:            uuid.New(),
		ProductGroupID:        uuid.New(),
		QCRequired:            true,
		DefaultInspectionType: types.InspectionTypeSampling,
		DefaultSamplingPlanID: &planID,
	}
}

func TestValidateShape_RequiredFields(t *testing.T) {
	input := validComponentInput()
	input.PartCode = ""
	input.PartName = ""
	fields := validateShape(&input)
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	if !seen["part_code"] || !seen["part_name"] {
		t.Fatalf("missing required-field violations: %v", fields)
	}
}

func TestValidateShape_InspectionTypeRules(t *testing.T) {
	input := validComponentInput()
	input.DefaultSamplingPlanID = nil
	fields := validateShape(&input)
	if len(fields) != 1 || fields[0].Field != "default_sampling_plan_id" {
		t.Fatalf("sampling without a plan must fail, got %v", fields)
	}

	input = validComponentInput()
	input.DefaultInspectionType = types.InspectionType100Percent
	fields = validateShape(&input)
	if len(fields) != 1 || fields[0].Field != "default_sampling_plan_id" {
		t.Fatalf("100_percent with a plan must fail, got %v", fields)
	}

	input.DefaultSamplingPlanID = nil
	if fields := validateShape(&input); len(fields) != 0 {
		t.Fatalf("100_percent without a plan is valid, got %v", fields)
	}

	input.DefaultInspectionType = "eyeball"
	fields = validateShape(&input)
	if len(fields) != 1 || fields[0].Field != "default_inspection_type" {
		t.Fatalf("unknown inspection type must fail, got %v", fields)
	}
}

func TestValidateShape_SkipLotSettings(t *testing.T) {
	input := validComponentInput()
	input.SkipLotEnabled = true
	fields := validateShape(&input)
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	if !seen["skip_lot_count"] || !seen["skip_lot_threshold"] {
		t.Fatalf("skip lot enabled without settings must fail, got %v", fields)
	}

	input.SkipLotCount = 3
	input.SkipLotThreshold = 5
	if fields := validateShape(&input); len(fields) != 0 {
		t.Fatalf("valid skip lot settings rejected: %v", fields)
	}
}

func TestValidateShape_DuplicateSpecKeysCaseInsensitive(t *testing.T) {
	input := validComponentInput()
	input.Specifications = []SpecificationInput{
		{SpecKey: "Material", SpecValue: "SS304"},
		{SpecKey: "Finish", SpecValue: "Zinc"},
		{SpecKey: "MATERIAL", SpecValue: "SS316"},
	}
	fields := validateShape(&input)
	if len(fields) != 1 {
		t.Fatalf("expected one duplicate violation, got %v", fields)
	}
	if fields[0].Field != "specifications[2].spec_key" {
		t.Errorf("field = %q", fields[0].Field)
	}
	if !strings.Contains(fields[0].Message, "specifications[0]") {
		t.Errorf("message must name the first occurrence: %q", fields[0].Message)
	}
}

func TestValidateShape_DuplicateVendorLinks(t *testing.T) {
	vendorID := uuid.New()
	input := validComponentInput()
	input.VendorLinks = []VendorLinkInput{
		{VendorID: vendorID, IsPrimary: true},
		{VendorID: uuid.New()},
		{VendorID: vendorID},
	}
	fields := validateShape(&input)
	if len(fields) != 1 || fields[0].Field != "vendor_links[2].vendor_id" {
		t.Fatalf("expected duplicate vendor violation on index 2, got %v", fields)
	}
}

func TestNewComponentCode(t *testing.T) {
	code := newComponentCode()
	if !strings.HasPrefix(code, "CMP-") {
		t.Fatalf("code = %q", code)
	}
	if len(code) != len("CMP-")+10 {
		t.Fatalf("code length = %d: %q", len(code), code)
	}
	if code == newComponentCode() {
		t.Fatal("codes must not repeat")
	}
}

func TestTrackedChanges_OnlyDiffers(t *testing.T) {
	planID := uuid.New()
	comp := &types.Component{
		PartCode:   "HX-M8-040",
		PartName:   "M8x40 Hex Bolt",
		QCRequired: true,
		QCPlanID:   &planID,
		Status:     types.StatusActive,
	}

	samePart := comp.PartCode
	newName := "M8x40 Hex Bolt Gr8.8"
	patch := ComponentPatch{
		PartCode: &samePart,
		PartName: &newName,
	}
	changes := trackedChanges(comp, &patch)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %v", changes)
	}
	if changes[0].Field != "part_name" || changes[0].OldValue != "M8x40 Hex Bolt" || changes[0].NewValue != newName {
		t.Errorf("unexpected change %+v", changes[0])
	}
}

func TestTrackedChanges_ClearedForeignKey(t *testing.T) {
	planID := uuid.New()
	comp := &types.Component{QCPlanID: &planID}
	patch := ComponentPatch{ClearQCPlan: true}
	changes := trackedChanges(comp, &patch)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %v", changes)
	}
	if changes[0].Field != "qc_plan_id" || changes[0].OldValue != planID.String() || changes[0].NewValue != "" {
		t.Errorf("unexpected change %+v", changes[0])
	}
}

func TestTrackedChanges_BoolFormatting(t *testing.T) {
	comp := &types.Component{QCRequired: false}
	on := true
	changes := trackedChanges(comp, &ComponentPatch{QCRequired: &on})
	if len(changes) != 1 || changes[0].OldValue != "false" || changes[0].NewValue != "true" {
		t.Fatalf("unexpected changes %v", changes)
	}
}

func TestApplyPatch_CollectionsAbsentStayEmpty(t *testing.T) {
	planID := uuid.New()
	comp := &types.Component{
		PartCode:              "HX-M8-040",
		PartName:              "M8x40 Hex Bolt",
		CategoryID:            uuid.New(),
		ProductGroupID:        uuid.New(),
		DefaultInspectionType: types.InspectionTypeSampling,
		DefaultSamplingPlanID: &planID,
	}
	newName := "Renamed"
	effective := applyPatch(comp, &ComponentPatch{PartName: &newName})
	if effective.PartName != "Renamed" || comp.PartName != "Renamed" {
		t.Fatalf("scalar patch not applied: %+v", effective)
	}
	if effective.PartCode != "HX-M8-040" {
		t.Errorf("untouched scalar changed: %q", effective.PartCode)
	}
	if len(effective.CheckingParameters) != 0 || len(effective.Specifications) != 0 || len(effective.VendorLinks) != 0 {
		t.Error("absent collections must validate as empty")
	}

	specs := []SpecificationInput{{SpecKey: "Material", SpecValue: "SS304"}}
	effective = applyPatch(comp, &ComponentPatch{Specifications: &specs})
	if len(effective.Specifications) != 1 {
		t.Fatalf("present collection must flow through, got %+v", effective.Specifications)
	}
}

func TestApplyPatch_ClearFlags(t *testing.T) {
	dept := uuid.New()
	vendor := uuid.New()
	comp := &types.Component{
		DefaultInspectionType: types.InspectionType100Percent,
		DepartmentID:          &dept,
		PrimaryVendorID:       &vendor,
	}
	effective := applyPatch(comp, &ComponentPatch{ClearDepartment: true, ClearPrimaryVendor: true})
	if effective.DepartmentID != nil || comp.DepartmentID != nil {
		t.Error("department not cleared")
	}
	if effective.PrimaryVendorID != nil || comp.PrimaryVendorID != nil {
		t.Error("primary vendor not cleared")
	}
}
