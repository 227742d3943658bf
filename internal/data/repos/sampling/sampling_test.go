package sampling

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/titanfab/qcmaster-backend/internal/data/repos/testutil"
	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

func TestPlanRepo_BandsRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	plan := &types.SamplingPlan{
		ID:       uuid.New(),
		PlanCode: testutil.UniqueCode("SP"),
		PlanName: "AQL 1.0 General",
		PlanType: "single",
		IsActive: true,
	}
	if err := repo.Create(ctx, tx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	bands := []*types.LotSizeBand{
		{ID: uuid.New(), PlanID: plan.ID, LotSizeMin: 101, LotSizeMax: 500, SampleSize: 20, AcceptNumber: 1, RejectNumber: 2},
		{ID: uuid.New(), PlanID: plan.ID, LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, AcceptNumber: 0, RejectNumber: 1},
	}
	if err := repo.InsertBands(ctx, tx, bands); err != nil {
		t.Fatalf("insert bands: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, plan.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(got.Bands) != 2 {
		t.Fatalf("bands preloaded = %d, want 2", len(got.Bands))
	}
	if got.Bands[0].LotSizeMin != 1 || got.Bands[1].LotSizeMin != 101 {
		t.Errorf("bands not ordered by lot_size_min: %+v", got.Bands)
	}
}

func TestPlanRepo_FindBandsContaining(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	plan := testutil.SeedSamplingPlan(t, tx)

	hits, err := repo.FindBandsContaining(ctx, tx, plan.ID, 50)
	if err != nil {
		t.Fatalf("find bands: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].SampleSize != 5 {
		t.Errorf("wrong band matched: %+v", hits[0])
	}

	// boundary lot size belongs to the second band
	hits, err = repo.FindBandsContaining(ctx, tx, plan.ID, 101)
	if err != nil {
		t.Fatalf("find bands: %v", err)
	}
	if len(hits) != 1 || hits[0].SampleSize != 20 {
		t.Fatalf("boundary match wrong: %+v", hits)
	}

	hits, err = repo.FindBandsContaining(ctx, tx, plan.ID, 501)
	if err != nil {
		t.Fatalf("find bands: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("lot size past coverage matched %d bands", len(hits))
	}
}

func TestPlanRepo_MaxCoveredLotSize(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	plan := testutil.SeedSamplingPlan(t, tx)
	max, err := repo.MaxCoveredLotSize(ctx, tx, plan.ID)
	if err != nil {
		t.Fatalf("max covered: %v", err)
	}
	if max != 500 {
		t.Errorf("max covered = %d, want 500", max)
	}

	empty, err := repo.MaxCoveredLotSize(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("max covered (no bands): %v", err)
	}
	if empty != 0 {
		t.Errorf("plan without bands must report 0, got %d", empty)
	}
}

func TestPlanRepo_CodeExists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	plan := testutil.SeedSamplingPlan(t, tx)

	taken, err := repo.CodeExists(ctx, tx, plan.PlanCode, nil)
	if err != nil {
		t.Fatalf("code exists: %v", err)
	}
	if !taken {
		t.Error("existing code reported free")
	}

	taken, err = repo.CodeExists(ctx, tx, plan.PlanCode, &plan.ID)
	if err != nil {
		t.Fatalf("code exists with exclude: %v", err)
	}
	if taken {
		t.Error("code must be free when its own row is excluded")
	}

	// lower-cased lookup still collides
	taken, err = repo.CodeExists(ctx, tx, "sp"+plan.PlanCode[2:], nil)
	if err != nil {
		t.Fatalf("code exists lowercase: %v", err)
	}
	if !taken {
		t.Error("code uniqueness must be case-insensitive")
	}
}

func TestPlanRepo_DeleteBands(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	plan := testutil.SeedSamplingPlan(t, tx)
	if err := repo.DeleteBands(ctx, tx, plan.ID); err != nil {
		t.Fatalf("delete bands: %v", err)
	}
	left, err := repo.ListBands(ctx, tx, plan.ID)
	if err != nil {
		t.Fatalf("list bands: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("bands left after delete: %d", len(left))
	}
}
