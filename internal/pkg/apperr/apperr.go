package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is the sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is the sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidLotSize rejects lot sizes below 1.
	ErrInvalidLotSize = errors.New("lot_size must be >= 1")
)

// FieldError addresses a single offending field. Field may point into nested
// collections, e.g. "stages[2].parameters[0].unit_id".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Fieldf(field, format string, args ...interface{}) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationError aggregates every violation found in one request. It is never
// raised for the first problem only; callers collect all of them first.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPStatusCode() int { return http.StatusUnprocessableEntity }

// Validation builds a ValidationError from collected field errors, or returns
// nil when the list is empty.
func Validation(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// DuplicateCodeError reports a case-insensitive code collision within one
// entity type (plan_code, category_code, part_code, ...).
type DuplicateCodeError struct {
	Entity string
	Field  string
	Code   string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("%s %s %q already exists", e.Entity, e.Field, e.Code)
}

func (e *DuplicateCodeError) HTTPStatusCode() int { return http.StatusConflict }

// ReferentialConflictError refuses a deactivate/delete while active dependents
// exist. Dependents carries the blocker count for the caller.
type ReferentialConflictError struct {
	Entity     string
	Dependents int64
	Reason     string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("cannot deactivate %s: %s (%d dependent rows)", e.Entity, e.Reason, e.Dependents)
}

func (e *ReferentialConflictError) HTTPStatusCode() int { return http.StatusConflict }

// OverlappingBandsError names both offending lot-size bands and their ranges.
type OverlappingBandsError struct {
	IndexA, IndexB int
	MinA, MaxA     int
	MinB, MaxB     int
}

func (e *OverlappingBandsError) Error() string {
	return fmt.Sprintf("lot size bands overlap: bands[%d] (%d-%d) and bands[%d] (%d-%d)",
		e.IndexA, e.MinA, e.MaxA, e.IndexB, e.MinB, e.MaxB)
}

func (e *OverlappingBandsError) HTTPStatusCode() int { return http.StatusUnprocessableEntity }

// LotSizeOutOfRangeError reports the maximum covered lot size so the caller can
// see how far the plan's bands reach.
type LotSizeOutOfRangeError struct {
	PlanCode   string
	LotSize    int
	MaxCovered int
}

func (e *LotSizeOutOfRangeError) Error() string {
	return fmt.Sprintf("lot size %d exceeds maximum range (%d) in plan %s", e.LotSize, e.MaxCovered, e.PlanCode)
}

func (e *LotSizeOutOfRangeError) HTTPStatusCode() int { return http.StatusBadRequest }

// ConfigNotEditableError refuses writes to a locked system configuration key.
type ConfigNotEditableError struct {
	Key string
}

func (e *ConfigNotEditableError) Error() string {
	return fmt.Sprintf("configuration %q is not editable", e.Key)
}

func (e *ConfigNotEditableError) HTTPStatusCode() int { return http.StatusForbidden }

// ConsistencyError marks a read-time violation of a write-path invariant, e.g.
// two lot-size bands matching one lot size. It is an internal fault, not a
// client error.
type ConsistencyError struct {
	Detail string
}

func (e *ConsistencyError) Error() string { return "data consistency violation: " + e.Detail }

func (e *ConsistencyError) HTTPStatusCode() int { return http.StatusInternalServerError }
