package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/titanfab/qcmaster-backend/internal/handlers"
	"github.com/titanfab/qcmaster-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	CatalogHandler     *handlers.CatalogHandler
	SamplingHandler    *handlers.SamplingHandler
	QCPlanHandler      *handlers.QCPlanHandler
	ComponentHandler   *handlers.ComponentHandler
	AuditHandler       *handlers.AuditHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	admin := cfg.AuthMiddleware.RequireRole("admin", "quality_head")

	// Catalog masters
	catalog := api.Group("/masters")
	{
		catalog.GET("/categories", cfg.CatalogHandler.ListCategories)
		catalog.POST("/categories", admin, cfg.CatalogHandler.CreateCategory)
		catalog.PUT("/categories/:id", admin, cfg.CatalogHandler.UpdateCategory)
		catalog.DELETE("/categories/:id", admin, cfg.CatalogHandler.DeactivateCategory)

		catalog.GET("/product-groups", cfg.CatalogHandler.ListGroups)
		catalog.POST("/product-groups", admin, cfg.CatalogHandler.CreateGroup)
		catalog.PUT("/product-groups/:id", admin, cfg.CatalogHandler.UpdateGroup)
		catalog.DELETE("/product-groups/:id", admin, cfg.CatalogHandler.DeactivateGroup)

		catalog.GET("/units", cfg.CatalogHandler.ListUnits)
		catalog.POST("/units", admin, cfg.CatalogHandler.CreateUnit)
		catalog.PUT("/units/:id", admin, cfg.CatalogHandler.UpdateUnit)
		catalog.DELETE("/units/:id", admin, cfg.CatalogHandler.DeactivateUnit)

		catalog.GET("/instruments", cfg.CatalogHandler.ListInstruments)
		catalog.POST("/instruments", admin, cfg.CatalogHandler.CreateInstrument)
		catalog.PUT("/instruments/:id", admin, cfg.CatalogHandler.UpdateInstrument)
		catalog.DELETE("/instruments/:id", admin, cfg.CatalogHandler.DeactivateInstrument)

		catalog.GET("/vendors", cfg.CatalogHandler.ListVendors)
		catalog.GET("/vendors/:id", cfg.CatalogHandler.GetVendor)
		catalog.POST("/vendors", admin, cfg.CatalogHandler.CreateVendor)
		catalog.PUT("/vendors/:id", admin, cfg.CatalogHandler.UpdateVendor)
		catalog.DELETE("/vendors/:id", admin, cfg.CatalogHandler.DeactivateVendor)

		catalog.GET("/departments", cfg.CatalogHandler.ListDepartments)
		catalog.POST("/departments", admin, cfg.CatalogHandler.CreateDepartment)
		catalog.PUT("/departments/:id", admin, cfg.CatalogHandler.UpdateDepartment)
		catalog.DELETE("/departments/:id", admin, cfg.CatalogHandler.DeactivateDepartment)

		catalog.GET("/defect-types", cfg.CatalogHandler.ListDefectTypes)
		catalog.POST("/defect-types", admin, cfg.CatalogHandler.CreateDefectType)
		catalog.PUT("/defect-types/:id", admin, cfg.CatalogHandler.UpdateDefectType)

		catalog.GET("/rejection-reasons", cfg.CatalogHandler.ListRejectionReasons)
		catalog.POST("/rejection-reasons", admin, cfg.CatalogHandler.CreateRejectionReason)
		catalog.PUT("/rejection-reasons/:id", admin, cfg.CatalogHandler.UpdateRejectionReason)

		catalog.GET("/locations", cfg.CatalogHandler.ListLocations)
		catalog.POST("/locations", admin, cfg.CatalogHandler.CreateLocation)
		catalog.PUT("/locations/:id", admin, cfg.CatalogHandler.UpdateLocation)

		catalog.GET("/lookups", cfg.CatalogHandler.Lookups)
	}

	// Sampling plans
	sampling := api.Group("/sampling-plans")
	{
		sampling.GET("", cfg.SamplingHandler.List)
		sampling.GET("/:id", cfg.SamplingHandler.Get)
		sampling.POST("", admin, cfg.SamplingHandler.Create)
		sampling.PUT("/:id", admin, cfg.SamplingHandler.Update)
		sampling.DELETE("/:id", admin, cfg.SamplingHandler.Deactivate)
		sampling.GET("/:id/resolve", cfg.SamplingHandler.ResolveLotSize)
	}

	// QC plans
	qcplans := api.Group("/qc-plans")
	{
		qcplans.GET("", cfg.QCPlanHandler.List)
		qcplans.GET("/:id", cfg.QCPlanHandler.Get)
		qcplans.POST("", admin, cfg.QCPlanHandler.Create)
		qcplans.PUT("/:id", admin, cfg.QCPlanHandler.Update)
		qcplans.DELETE("/:id", admin, cfg.QCPlanHandler.Deactivate)
	}

	// Components
	components := api.Group("/components")
	{
		components.GET("", cfg.ComponentHandler.List)
		components.GET("/validate-part-code", cfg.ComponentHandler.ValidatePartCode)
		components.GET("/:id", cfg.ComponentHandler.Get)
		components.POST("", admin, cfg.ComponentHandler.Create)
		components.PUT("/:id", admin, cfg.ComponentHandler.Update)
		components.DELETE("/:id", admin, cfg.ComponentHandler.Delete)
		components.POST("/:id/duplicate", admin, cfg.ComponentHandler.Duplicate)
		components.GET("/:id/history", cfg.AuditHandler.ComponentHistory)
		components.GET("/:id/documents", cfg.ComponentHandler.ListDocuments)
		components.POST("/:id/documents", admin, cfg.ComponentHandler.AddDocument)
		components.DELETE("/:id/documents/:doc_id", admin, cfg.ComponentHandler.DeleteDocument)
	}

	// System configuration
	api.GET("/system-config", cfg.CatalogHandler.ListSystemConfig)
	api.PUT("/system-config/:key", admin, cfg.CatalogHandler.UpdateSystemConfig)

	// Audit trail
	api.GET("/audit-logs", cfg.AuditHandler.List)

	return router
}
