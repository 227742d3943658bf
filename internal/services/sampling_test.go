package services

import (
	"strings"
	"testing"

	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
)

func TestValidateBands_EmptySet(t *testing.T) {
	fields := validateBands(nil)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field error, got %d: %v", len(fields), fields)
	}
	if fields[0].Field != "bands" {
		t.Errorf("field = %q, want %q", fields[0].Field, "bands")
	}
}

func TestValidateBands_PerBandViolations(t *testing.T) {
	bands := []BandInput{
		{LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, AcceptNumber: 0, RejectNumber: 1},
		{LotSizeMin: 0, LotSizeMax: 0, SampleSize: 0, AcceptNumber: 2, RejectNumber: 1},
	}
	fields := validateBands(bands)
	if len(fields) == 0 {
		t.Fatal("expected violations for the second band")
	}
	for _, f := range fields {
		if !strings.HasPrefix(f.Field, "bands[1].") {
			t.Errorf("unexpected field path %q, all violations belong to bands[1]", f.Field)
		}
	}
	want := map[string]bool{
		"bands[1].lot_size_min":  true,
		"bands[1].lot_size_max":  true,
		"bands[1].sample_size":   true,
		"bands[1].reject_number": true,
	}
	got := map[string]bool{}
	for _, f := range fields {
		got[f.Field] = true
	}
	for field := range want {
		if !got[field] {
			t.Errorf("missing violation for %s, got %v", field, fields)
		}
	}
}

func TestValidateBands_MaxEqualMinRejected(t *testing.T) {
	bands := []BandInput{{LotSizeMin: 10, LotSizeMax: 10, SampleSize: 2, AcceptNumber: 0, RejectNumber: 1}}
	fields := validateBands(bands)
	if len(fields) != 1 || fields[0].Field != "bands[0].lot_size_max" {
		t.Fatalf("expected a single lot_size_max violation, got %v", fields)
	}
}

func TestFindOverlap_None(t *testing.T) {
	bands := []BandInput{
		{LotSizeMin: 1, LotSizeMax: 100, SampleSize: 5, RejectNumber: 1},
		{LotSizeMin: 101, LotSizeMax: 500, SampleSize: 20, RejectNumber: 1},
		{LotSizeMin: 501, LotSizeMax: 1000, SampleSize: 32, RejectNumber: 1},
	}
	if overlap := findOverlap(bands); overlap != nil {
		t.Fatalf("expected no overlap, got %v", overlap)
	}
}

func TestFindOverlap_SharedBoundary(t *testing.T) {
	bands := []BandInput{
		{LotSizeMin: 1, LotSizeMax: 100},
		{LotSizeMin: 100, LotSizeMax: 500},
	}
	overlap := findOverlap(bands)
	if overlap == nil {
		t.Fatal("bands sharing lot size 100 must overlap")
	}
	if overlap.IndexA != 0 || overlap.IndexB != 1 {
		t.Errorf("overlap indices = (%d,%d), want (0,1)", overlap.IndexA, overlap.IndexB)
	}
}

func TestFindOverlap_NonAdjacent(t *testing.T) {
	bands := []BandInput{
		{LotSizeMin: 1, LotSizeMax: 50},
		{LotSizeMin: 200, LotSizeMax: 300},
		{LotSizeMin: 40, LotSizeMax: 60},
	}
	overlap := findOverlap(bands)
	if overlap == nil {
		t.Fatal("bands[0] and bands[2] overlap on 40..50")
	}
	if overlap.IndexA != 0 || overlap.IndexB != 2 {
		t.Errorf("overlap indices = (%d,%d), want (0,2)", overlap.IndexA, overlap.IndexB)
	}
	if overlap.HTTPStatusCode() != 422 {
		t.Errorf("status = %d, want 422", overlap.HTTPStatusCode())
	}
}

func TestValidationAggregation_NeverFailFast(t *testing.T) {
	bands := []BandInput{
		{LotSizeMin: 0, LotSizeMax: 10, SampleSize: 1, RejectNumber: 1},
		{LotSizeMin: 0, LotSizeMax: 10, SampleSize: 1, RejectNumber: 1},
	}
	fields := validateBands(bands)
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	if !seen["bands[0].lot_size_min"] || !seen["bands[1].lot_size_min"] {
		t.Fatalf("both bands must be reported, got %v", fields)
	}
	if err := apperr.Validation(fields); err == nil {
		t.Fatal("non-empty field list must produce a validation error")
	}
	if err := apperr.Validation(nil); err != nil {
		t.Fatalf("empty field list must produce nil, got %v", err)
	}
}
