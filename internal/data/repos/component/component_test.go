package component

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titanfab/qcmaster-backend/internal/data/repos/testutil"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

func seedTree(t *testing.T, tx *gorm.DB) (*types.ProductCategory, *types.ProductGroup, *types.Component) {
	t.Helper()
	cat := testutil.SeedCategory(t, tx)
	grp := testutil.SeedGroup(t, tx, cat.ID)
	comp := testutil.SeedComponent(t, tx, cat.ID, grp.ID)
	return cat, grp, comp
}

func TestComponentRepo_ChildReplaceIsWholesale(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	_, _, comp := seedTree(t, tx)
	unit := testutil.SeedUnit(t, tx)

	first := []*types.CheckingParameter{
		{ComponentID: comp.ID, CheckingType: "measurement", CheckingPoint: "Length", UnitID: &unit.ID, SortOrder: 2},
		{ComponentID: comp.ID, CheckingType: "visual", CheckingPoint: "Burrs", InputType: "visual", SortOrder: 1},
	}
	if err := repo.ReplaceCheckingParameters(ctx, tx, comp.ID, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []*types.CheckingParameter{
		{ComponentID: comp.ID, CheckingType: "visual", CheckingPoint: "Plating", InputType: "visual", SortOrder: 1},
	}
	if err := repo.ReplaceCheckingParameters(ctx, tx, comp.ID, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, comp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.CheckingParameters) != 1 {
		t.Fatalf("parameters after replace = %d, want 1", len(got.CheckingParameters))
	}
	if got.CheckingParameters[0].CheckingPoint != "Plating" {
		t.Errorf("surviving parameter = %q", got.CheckingParameters[0].CheckingPoint)
	}
}

func TestComponentRepo_PreloadOrdersBySortOrder(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	_, _, comp := seedTree(t, tx)
	specs := []*types.Specification{
		{ComponentID: comp.ID, SpecKey: "Finish", SpecValue: "Zinc", SortOrder: 3},
		{ComponentID: comp.ID, SpecKey: "Material", SpecValue: "SS304", SortOrder: 1},
		{ComponentID: comp.ID, SpecKey: "Grade", SpecValue: "8.8", SortOrder: 2},
	}
	if err := repo.ReplaceSpecifications(ctx, tx, comp.ID, specs); err != nil {
		t.Fatalf("replace specs: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, comp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Specifications) != 3 {
		t.Fatalf("specifications = %d", len(got.Specifications))
	}
	for i, want := range []string{"Material", "Grade", "Finish"} {
		if got.Specifications[i].SpecKey != want {
			t.Errorf("specifications[%d] = %q, want %q", i, got.Specifications[i].SpecKey, want)
		}
	}
}

func TestComponentRepo_ListFilters(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	catA, grpA, inA := seedTree(t, tx)
	_, _, inB := seedTree(t, tx)

	got, err := repo.List(ctx, tx, ListFilter{CategoryID: &catA.ID})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(got) != 1 || got[0].ID != inA.ID {
		t.Fatalf("category filter returned %d rows", len(got))
	}

	got, err = repo.List(ctx, tx, ListFilter{ProductGroupID: &grpA.ID})
	if err != nil {
		t.Fatalf("list by group: %v", err)
	}
	if len(got) != 1 || got[0].ID != inA.ID {
		t.Fatalf("group filter returned %d rows", len(got))
	}

	got, err = repo.List(ctx, tx, ListFilter{Search: inB.PartCode})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(got) != 1 || got[0].ID != inB.ID {
		t.Fatalf("search filter returned %d rows", len(got))
	}
}

func TestComponentRepo_ListByVendor(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	_, _, linked := seedTree(t, tx)
	seedTree(t, tx)
	vendor := testutil.SeedVendor(t, tx)
	if err := repo.ReplaceVendorLinks(ctx, tx, linked.ID, []*types.VendorLink{
		{ComponentID: linked.ID, VendorID: vendor.ID, IsPrimary: true, IsApproved: true},
	}); err != nil {
		t.Fatalf("link vendor: %v", err)
	}

	got, err := repo.List(ctx, tx, ListFilter{VendorID: &vendor.ID})
	if err != nil {
		t.Fatalf("list by vendor: %v", err)
	}
	if len(got) != 1 || got[0].ID != linked.ID {
		t.Fatalf("vendor filter returned %d rows", len(got))
	}
}

func TestComponentRepo_SoftDeleteVisibility(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	cat, _, comp := seedTree(t, tx)

	comp.IsDeleted = true
	comp.Status = types.StatusInactive
	if err := repo.SoftDelete(ctx, tx, comp); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := repo.GetLiveByID(ctx, tx, comp.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("GetLiveByID after delete: err = %v, want ErrRecordNotFound", err)
	}
	if _, err := repo.GetByID(ctx, tx, comp.ID); err != nil {
		t.Errorf("GetByID after delete: %v", err)
	}

	catID := cat.ID
	got, err := repo.List(ctx, tx, ListFilter{CategoryID: &catID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("deleted component still listed")
	}
	got, err = repo.List(ctx, tx, ListFilter{CategoryID: &catID, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("list with deleted: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("IncludeDeleted returned %d rows", len(got))
	}

	taken, err := repo.PartCodeExists(ctx, tx, comp.PartCode, nil)
	if err != nil {
		t.Fatalf("part code exists: %v", err)
	}
	if taken {
		t.Error("deleted component's part code still reserved")
	}
}

func TestComponentRepo_CountDependents(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewComponentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	cat, grp, comp := seedTree(t, tx)
	sp := testutil.SeedSamplingPlan(t, tx)
	comp.DefaultSamplingPlanID = &sp.ID
	if err := repo.Update(ctx, tx, comp); err != nil {
		t.Fatalf("update: %v", err)
	}

	n, err := repo.CountByCategory(ctx, tx, cat.ID)
	if err != nil || n != 1 {
		t.Errorf("CountByCategory = %d, %v", n, err)
	}
	n, err = repo.CountByProductGroup(ctx, tx, grp.ID)
	if err != nil || n != 1 {
		t.Errorf("CountByProductGroup = %d, %v", n, err)
	}
	n, err = repo.CountBySamplingPlan(ctx, tx, sp.ID)
	if err != nil || n != 1 {
		t.Errorf("CountBySamplingPlan = %d, %v", n, err)
	}
	n, err = repo.CountBySamplingPlan(ctx, tx, uuid.New())
	if err != nil || n != 0 {
		t.Errorf("CountBySamplingPlan(unused) = %d, %v", n, err)
	}
}
