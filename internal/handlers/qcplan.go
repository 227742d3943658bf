package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

type QCPlanHandler struct {
	log           *logger.Logger
	qcPlanService services.QCPlanService
}

func NewQCPlanHandler(log *logger.Logger, qcPlanService services.QCPlanService) *QCPlanHandler {
	return &QCPlanHandler{
		log:           log.With("handler", "QCPlanHandler"),
		qcPlanService: qcPlanService,
	}
}

func (h *QCPlanHandler) List(c *gin.Context) {
	plans, err := h.qcPlanService.ListPlans(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"qc_plans": plans})
}

func (h *QCPlanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	plan, err := h.qcPlanService.GetPlan(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"qc_plan": plan})
}

func (h *QCPlanHandler) Create(c *gin.Context) {
	var input services.QCPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plan, err := h.qcPlanService.CreatePlan(c.Request.Context(), input)
	if err != nil {
		h.log.Warn("Create failed", "error", err, "plan_code", input.PlanCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"qc_plan": plan})
}

func (h *QCPlanHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var patch services.QCPlanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plan, err := h.qcPlanService.UpdatePlan(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Warn("Update failed", "error", err, "plan_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"qc_plan": plan})
}

func (h *QCPlanHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.qcPlanService.DeactivatePlan(c.Request.Context(), id); err != nil {
		h.log.Warn("Deactivate failed", "error", err, "plan_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "qc plan deactivated"})
}
