package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

var seq atomic.Int64

// UniqueCode returns a code unique within the test binary, so fixtures never
// collide on unique indexes even across packages sharing one database.
func UniqueCode(prefix string) string {
	return fmt.Sprintf("%s-%06d", prefix, seq.Add(1))
}

func SeedCategory(tb testing.TB, tx *gorm.DB) *types.ProductCategory {
	tb.Helper()
	cat := &types.ProductCategory{
		ID:           uuid.New(),
		CategoryCode: UniqueCode("CAT"),
		CategoryName: "Fasteners",
		IsActive:     true,
	}
	if err := tx.Create(cat).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return cat
}

func SeedGroup(tb testing.TB, tx *gorm.DB, categoryID uuid.UUID) *types.ProductGroup {
	tb.Helper()
	grp := &types.ProductGroup{
		ID:         uuid.New(),
		GroupCode:  UniqueCode("GRP"),
		GroupName:  "Hex Bolts",
		CategoryID: categoryID,
		IsActive:   true,
	}
	if err := tx.Create(grp).Error; err != nil {
		tb.Fatalf("seed product group: %v", err)
	}
	return grp
}

func SeedUnit(tb testing.TB, tx *gorm.DB) *types.Unit {
	tb.Helper()
	unit := &types.Unit{
		ID:       uuid.New(),
		UnitCode: UniqueCode("MM"),
		UnitName: "Millimetre",
		UnitType: "length",
		IsActive: true,
	}
	if err := tx.Create(unit).Error; err != nil {
		tb.Fatalf("seed unit: %v", err)
	}
	return unit
}

func SeedInstrument(tb testing.TB, tx *gorm.DB) *types.Instrument {
	tb.Helper()
	inst := &types.Instrument{
		ID:             uuid.New(),
		InstrumentCode: UniqueCode("VER"),
		InstrumentName: "Vernier Caliper",
		InstrumentType: "measuring",
		IsActive:       true,
	}
	if err := tx.Create(inst).Error; err != nil {
		tb.Fatalf("seed instrument: %v", err)
	}
	return inst
}

func SeedVendor(tb testing.TB, tx *gorm.DB) *types.Vendor {
	tb.Helper()
	vendor := &types.Vendor{
		ID:         uuid.New(),
		VendorCode: UniqueCode("VEN"),
		VendorName: "Precision Forge Works",
		VendorType: "manufacturer",
		IsActive:   true,
	}
	if err := tx.Create(vendor).Error; err != nil {
		tb.Fatalf("seed vendor: %v", err)
	}
	return vendor
}

// SeedSamplingPlan creates an active plan with two non-overlapping bands
// covering lot sizes 1..500.
func SeedSamplingPlan(tb testing.TB, tx *gorm.DB) *types.SamplingPlan {
	tb.Helper()
	plan := &types.SamplingPlan{
		ID:       uuid.New(),
		PlanCode: UniqueCode("SP"),
		PlanName: "General AQL 1.0",
		PlanType: "single",
		IsActive: true,
	}
	if err := tx.Create(plan).Error; err != nil {
		tb.Fatalf("seed sampling plan: %v", err)
	}
	bands := []*types.LotSizeBand{
		{ID: uuid.New(), PlanID: plan.ID, LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, AcceptNumber: 0, RejectNumber: 1},
		{ID: uuid.New(), PlanID: plan.ID, LotSizeMin: 101, LotSizeMax: 500, SampleSize: 20, AcceptNumber: 1, RejectNumber: 2},
	}
	if err := tx.Create(&bands).Error; err != nil {
		tb.Fatalf("seed sampling bands: %v", err)
	}
	plan.Bands = []types.LotSizeBand{*bands[0], *bands[1]}
	return plan
}

// SeedQCPlan creates an active single stage plan so components can reference
// it.
func SeedQCPlan(tb testing.TB, tx *gorm.DB, samplingPlanID *uuid.UUID) *types.QCPlan {
	tb.Helper()
	plan := &types.QCPlan{
		ID:             uuid.New(),
		PlanCode:       UniqueCode("QCP"),
		PlanName:       "Incoming Inspection",
		PlanType:       "standard",
		Status:         types.StatusActive,
		RequiresVisual: true,
		IsActive:       true,
	}
	if err := tx.Create(plan).Error; err != nil {
		tb.Fatalf("seed qc plan: %v", err)
	}
	stage := &types.QCPlanStage{
		ID:             uuid.New(),
		PlanID:         plan.ID,
		StageCode:      "STG-01",
		StageName:      "Visual Check",
		StageType:      "visual",
		StageSequence:  1,
		InspectionType: types.InspectionTypeSampling,
		SamplingPlanID: samplingPlanID,
		IsMandatory:    true,
		IsActive:       true,
	}
	if err := tx.Create(stage).Error; err != nil {
		tb.Fatalf("seed qc plan stage: %v", err)
	}
	plan.Stages = []types.QCPlanStage{*stage}
	return plan
}

func SeedComponent(tb testing.TB, tx *gorm.DB, categoryID, groupID uuid.UUID) *types.Component {
	tb.Helper()
	c := &types.Component{
		ID:                    uuid.New(),
		ComponentCode:         UniqueCode("CMP"),
		PartCode:              UniqueCode("PRT"),
		PartName:              "M8 Hex Bolt",
		CategoryID:            categoryID,
		ProductGroupID:        groupID,
		QCRequired:            true,
		DefaultInspectionType: types.InspectionTypeSampling,
		Status:                types.StatusActive,
	}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed component: %v", err)
	}
	return c
}
