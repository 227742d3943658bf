package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

type SamplingHandler struct {
	log             *logger.Logger
	samplingService services.SamplingService
}

func NewSamplingHandler(log *logger.Logger, samplingService services.SamplingService) *SamplingHandler {
	return &SamplingHandler{
		log:             log.With("handler", "SamplingHandler"),
		samplingService: samplingService,
	}
}

func (h *SamplingHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	plans, err := h.samplingService.ListPlans(c.Request.Context(), c.Query("plan_type"), c.Query("search"), activeOnly)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"sampling_plans": plans})
}

func (h *SamplingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	plan, err := h.samplingService.GetPlan(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"sampling_plan": plan})
}

func (h *SamplingHandler) Create(c *gin.Context) {
	var input services.SamplingPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plan, err := h.samplingService.CreatePlan(c.Request.Context(), input)
	if err != nil {
		h.log.Warn("Create failed", "error", err, "plan_code", input.PlanCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"sampling_plan": plan})
}

func (h *SamplingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var patch services.SamplingPlanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plan, err := h.samplingService.UpdatePlan(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Warn("Update failed", "error", err, "plan_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"sampling_plan": plan})
}

func (h *SamplingHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.samplingService.DeactivatePlan(c.Request.Context(), id); err != nil {
		h.log.Warn("Deactivate failed", "error", err, "plan_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "sampling plan deactivated"})
}

// ResolveLotSize answers "how many pieces do I pull from this lot".
func (h *SamplingHandler) ResolveLotSize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	lotSize, err := strconv.Atoi(c.Query("lot_size"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lot_size", err)
		return
	}
	resolution, err := h.samplingService.ResolveLotSize(c.Request.Context(), id, lotSize)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"resolution": resolution})
}
