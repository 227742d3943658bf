package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	"github.com/titanfab/qcmaster-backend/internal/pkg/apperr"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

type ComponentHandler struct {
	log              *logger.Logger
	componentService services.ComponentService
}

func NewComponentHandler(log *logger.Logger, componentService services.ComponentService) *ComponentHandler {
	return &ComponentHandler{
		log:              log.With("handler", "ComponentHandler"),
		componentService: componentService,
	}
}

func (h *ComponentHandler) List(c *gin.Context) {
	filter := componentrepo.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("product_group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_product_group_id", err)
			return
		}
		filter.ProductGroupID = &id
	}
	if raw := c.Query("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_vendor_id", err)
			return
		}
		filter.VendorID = &id
	}
	if raw := c.Query("qc_required"); raw != "" {
		v := raw == "true"
		filter.QCRequired = &v
	}

	components, err := h.componentService.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"components": components})
}

func (h *ComponentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	comp, err := h.componentService.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"component": comp})
}

func (h *ComponentHandler) Create(c *gin.Context) {
	var input services.ComponentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	// QC-required components must arrive with at least one checking
	// parameter; the service itself allows parameterless rows so drafts can
	// be built up over several calls.
	if input.QCRequired && len(input.CheckingParameters) == 0 {
		RespondDomainError(c, apperr.Validation([]apperr.FieldError{
			apperr.Fieldf("checking_parameters", "at least 1 checking parameter required when qc_required=true"),
		}))
		return
	}
	comp, err := h.componentService.Create(c.Request.Context(), input)
	if err != nil {
		h.log.Warn("Create failed", "error", err, "part_code", input.PartCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"component": comp})
}

func (h *ComponentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var patch services.ComponentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	comp, err := h.componentService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Warn("Update failed", "error", err, "component_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"component": comp})
}

func (h *ComponentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.componentService.SoftDelete(c.Request.Context(), id); err != nil {
		h.log.Warn("Delete failed", "error", err, "component_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "component deleted"})
}

func (h *ComponentHandler) Duplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	comp, err := h.componentService.Duplicate(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("Duplicate failed", "error", err, "component_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"component": comp})
}

func (h *ComponentHandler) ValidatePartCode(c *gin.Context) {
	partCode := strings.TrimSpace(c.Query("part_code"))
	if partCode == "" {
		RespondError(c, http.StatusBadRequest, "missing_part_code", errors.New("part_code parameter required"))
		return
	}
	available, err := h.componentService.ValidatePartCode(c.Request.Context(), partCode, nil)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"part_code": partCode, "available": available})
}

func (h *ComponentHandler) AddDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var input services.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	doc, err := h.componentService.AddDocument(c.Request.Context(), id, input)
	if err != nil {
		h.log.Warn("AddDocument failed", "error", err, "component_id", id)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"document": doc})
}

func (h *ComponentHandler) ListDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	docs, err := h.componentService.ListDocuments(c.Request.Context(), id, c.Query("current_only") == "true")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

func (h *ComponentHandler) DeleteDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("doc_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.componentService.DeleteDocument(c.Request.Context(), docID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}
