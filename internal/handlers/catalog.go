package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

// CatalogHandler exposes the reference masters. The entity endpoints all
// follow the same bind / call / envelope shape.
type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:            log.With("handler", "CatalogHandler"),
		catalogService: catalogService,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func activeOnly(c *gin.Context) bool {
	return c.Query("active_only") == "true"
}

// --- categories ---

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context(), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var cat types.ProductCategory
	if err := c.ShouldBindJSON(&cat); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateCategory(c.Request.Context(), &cat); err != nil {
		h.log.Warn("CreateCategory failed", "error", err, "category_code", cat.CategoryCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"category": cat})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var cat types.ProductCategory
	if err := c.ShouldBindJSON(&cat); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	cat.ID = id
	if err := h.catalogService.UpdateCategory(c.Request.Context(), &cat); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": cat})
}

func (h *CatalogHandler) DeactivateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateCategory(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "category deactivated"})
}

// --- product groups ---

func (h *CatalogHandler) ListGroups(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Query("category_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
		return
	}
	groups, err := h.catalogService.ListGroups(c.Request.Context(), categoryID, activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"product_groups": groups})
}

func (h *CatalogHandler) CreateGroup(c *gin.Context) {
	var grp types.ProductGroup
	if err := c.ShouldBindJSON(&grp); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateGroup(c.Request.Context(), &grp); err != nil {
		h.log.Warn("CreateGroup failed", "error", err, "group_code", grp.GroupCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"product_group": grp})
}

func (h *CatalogHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var grp types.ProductGroup
	if err := c.ShouldBindJSON(&grp); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	grp.ID = id
	if err := h.catalogService.UpdateGroup(c.Request.Context(), &grp); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"product_group": grp})
}

func (h *CatalogHandler) DeactivateGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateGroup(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "product group deactivated"})
}

// --- units ---

func (h *CatalogHandler) ListUnits(c *gin.Context) {
	units, err := h.catalogService.ListUnits(c.Request.Context(), c.Query("unit_type"), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"units": units})
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var unit types.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateUnit(c.Request.Context(), &unit); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"unit": unit})
}

func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var unit types.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	unit.ID = id
	if err := h.catalogService.UpdateUnit(c.Request.Context(), &unit); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"unit": unit})
}

func (h *CatalogHandler) DeactivateUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateUnit(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "unit deactivated"})
}

// --- instruments ---

func (h *CatalogHandler) ListInstruments(c *gin.Context) {
	var departmentID *uuid.UUID
	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_department_id", err)
			return
		}
		departmentID = &id
	}
	instruments, err := h.catalogService.ListInstruments(c.Request.Context(), c.Query("instrument_type"), departmentID, activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"instruments": instruments})
}

func (h *CatalogHandler) CreateInstrument(c *gin.Context) {
	var inst types.Instrument
	if err := c.ShouldBindJSON(&inst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateInstrument(c.Request.Context(), &inst); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"instrument": inst})
}

func (h *CatalogHandler) UpdateInstrument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var inst types.Instrument
	if err := c.ShouldBindJSON(&inst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	inst.ID = id
	if err := h.catalogService.UpdateInstrument(c.Request.Context(), &inst); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"instrument": inst})
}

func (h *CatalogHandler) DeactivateInstrument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateInstrument(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "instrument deactivated"})
}

// --- vendors ---

func (h *CatalogHandler) ListVendors(c *gin.Context) {
	vendors, err := h.catalogService.ListVendors(c.Request.Context(), c.Query("vendor_type"), c.Query("search"), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"vendors": vendors})
}

func (h *CatalogHandler) GetVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	vendor, err := h.catalogService.GetVendor(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"vendor": vendor})
}

func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	var vendor types.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateVendor(c.Request.Context(), &vendor); err != nil {
		h.log.Warn("CreateVendor failed", "error", err, "vendor_code", vendor.VendorCode)
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"vendor": vendor})
}

func (h *CatalogHandler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var vendor types.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	vendor.ID = id
	if err := h.catalogService.UpdateVendor(c.Request.Context(), &vendor); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"vendor": vendor})
}

func (h *CatalogHandler) DeactivateVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateVendor(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "vendor deactivated"})
}

// --- departments ---

func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.catalogService.ListDepartments(c.Request.Context(), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"departments": departments})
}

func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var dept types.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateDepartment(c.Request.Context(), &dept); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"department": dept})
}

func (h *CatalogHandler) UpdateDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dept types.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	dept.ID = id
	if err := h.catalogService.UpdateDepartment(c.Request.Context(), &dept); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"department": dept})
}

func (h *CatalogHandler) DeactivateDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeactivateDepartment(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "department deactivated"})
}

// --- defect types / rejection reasons / locations ---

func (h *CatalogHandler) ListDefectTypes(c *gin.Context) {
	defects, err := h.catalogService.ListDefectTypes(c.Request.Context(), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"defect_types": defects})
}

func (h *CatalogHandler) CreateDefectType(c *gin.Context) {
	var dt types.DefectType
	if err := c.ShouldBindJSON(&dt); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateDefectType(c.Request.Context(), &dt); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"defect_type": dt})
}

func (h *CatalogHandler) UpdateDefectType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dt types.DefectType
	if err := c.ShouldBindJSON(&dt); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	dt.ID = id
	if err := h.catalogService.UpdateDefectType(c.Request.Context(), &dt); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"defect_type": dt})
}

func (h *CatalogHandler) ListRejectionReasons(c *gin.Context) {
	reasons, err := h.catalogService.ListRejectionReasons(c.Request.Context(), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rejection_reasons": reasons})
}

func (h *CatalogHandler) CreateRejectionReason(c *gin.Context) {
	var rr types.RejectionReason
	if err := c.ShouldBindJSON(&rr); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateRejectionReason(c.Request.Context(), &rr); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"rejection_reason": rr})
}

func (h *CatalogHandler) UpdateRejectionReason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var rr types.RejectionReason
	if err := c.ShouldBindJSON(&rr); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rr.ID = id
	if err := h.catalogService.UpdateRejectionReason(c.Request.Context(), &rr); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rejection_reason": rr})
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context(), activeOnly(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"locations": locations})
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var loc types.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.CreateLocation(c.Request.Context(), &loc); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"location": loc})
}

func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var loc types.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	loc.ID = id
	if err := h.catalogService.UpdateLocation(c.Request.Context(), &loc); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"location": loc})
}

// --- system configuration ---

func (h *CatalogHandler) ListSystemConfig(c *gin.Context) {
	items, err := h.catalogService.ListSystemConfig(c.Request.Context(), c.QueryArray("module"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"system_config": items})
}

func (h *CatalogHandler) UpdateSystemConfig(c *gin.Context) {
	key := c.Param("key")
	var patch services.SystemConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	cfg, err := h.catalogService.UpdateSystemConfig(c.Request.Context(), key, patch)
	if err != nil {
		h.log.Warn("UpdateSystemConfig failed", "error", err, "config_key", key)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"config": cfg})
}

// Lookups backs the frontend's dropdowns with one call.
func (h *CatalogHandler) Lookups(c *gin.Context) {
	lookups, err := h.catalogService.Lookups(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"lookups": lookups})
}
