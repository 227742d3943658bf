package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/titanfab/qcmaster-backend/internal/pkg/httpx"
)

func TestValidation_NilOnEmpty(t *testing.T) {
	if err := Validation(nil); err != nil {
		t.Fatalf("Validation(nil) = %v", err)
	}
	if err := Validation([]FieldError{}); err != nil {
		t.Fatalf("Validation(empty) = %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Validation([]FieldError{
		Fieldf("bands", "at least one lot size band is required"),
		Fieldf("plan_code", "is required"),
	})
	want := "validation failed: bands: at least one lot size band is required; plan_code: is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation([]FieldError{Fieldf("x", "bad")}), http.StatusUnprocessableEntity},
		{&DuplicateCodeError{Entity: "sampling plan", Field: "plan_code", Code: "SP-1"}, http.StatusConflict},
		{&ReferentialConflictError{Entity: "unit", Dependents: 3, Reason: "referenced by checking parameters"}, http.StatusConflict},
		{&OverlappingBandsError{IndexA: 0, IndexB: 1, MinA: 1, MaxA: 100, MinB: 100, MaxB: 500}, http.StatusUnprocessableEntity},
		{&LotSizeOutOfRangeError{PlanCode: "SP-1", LotSize: 9000, MaxCovered: 500}, http.StatusBadRequest},
		{&ConsistencyError{Detail: "two bands match lot size 50"}, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", &DuplicateCodeError{Entity: "unit", Field: "unit_code", Code: "MM"}), http.StatusConflict},
	}
	for _, tc := range cases {
		if got := httpx.StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestOverlappingBandsError_NamesBothBands(t *testing.T) {
	err := &OverlappingBandsError{IndexA: 0, IndexB: 2, MinA: 1, MaxA: 100, MinB: 40, MaxB: 60}
	want := "lot size bands overlap: bands[0] (1-100) and bands[2] (40-60)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLotSizeOutOfRangeError_CarriesMaxCovered(t *testing.T) {
	err := &LotSizeOutOfRangeError{PlanCode: "SP-1", LotSize: 1200, MaxCovered: 500}
	want := "lot size 1200 exceeds maximum range (500) in plan SP-1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
