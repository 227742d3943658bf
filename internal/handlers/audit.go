package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

type AuditHandler struct {
	log          *logger.Logger
	auditService services.AuditService
}

func NewAuditHandler(log *logger.Logger, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		log:          log.With("handler", "AuditHandler"),
		auditService: auditService,
	}
}

// List returns audit rows, newest first. Filterable by table_name and
// record_id; limit defaults to 100.
func (h *AuditHandler) List(c *gin.Context) {
	var recordID *uuid.UUID
	if raw := c.Query("record_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_record_id", err)
			return
		}
		recordID = &id
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	logs, err := h.auditService.ListAudit(c.Request.Context(), c.Query("table_name"), recordID, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"audit_logs": logs})
}

func (h *AuditHandler) ComponentHistory(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	history, err := h.auditService.ListComponentHistory(c.Request.Context(), componentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": history})
}
