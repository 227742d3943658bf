package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/httpx"
)

type APIError struct {
	Message string             `json:"message"`
	Code    string             `json:"code,omitempty"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondDomainError maps a service error onto the wire: typed domain errors
// carry their own status, sentinel errors are translated here, anything else
// is a 500 with a generic message so internals never leak.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	case errors.Is(err, apperr.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	case errors.Is(err, apperr.ErrInvalidLotSize):
		RespondError(c, http.StatusBadRequest, "invalid_lot_size", err)
		return
	}

	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{
			Error: APIError{
				Message: "validation failed",
				Code:    "validation_failed",
				Fields:  vErr.Fields,
			},
		})
		return
	}

	status := httpx.StatusFor(err)
	if status == http.StatusInternalServerError {
		RespondError(c, status, "internal_error", errors.New("internal error"))
		return
	}
	RespondError(c, status, codeFor(err), err)
}

func codeFor(err error) string {
	var (
		dup     *apperr.DuplicateCodeError
		ref     *apperr.ReferentialConflictError
		overlap *apperr.OverlappingBandsError
		lot     *apperr.LotSizeOutOfRangeError
	)
	switch {
	case errors.As(err, &dup):
		return "duplicate_code"
	case errors.As(err, &ref):
		return "referential_conflict"
	case errors.As(err, &overlap):
		return "overlapping_bands"
	case errors.As(err, &lot):
		return "lot_size_out_of_range"
	}
	return "request_failed"
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
