package app

import (
	"github.com/gin-gonic/gin"

	"github.com/titanfab/qcmaster-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:       cfg.AllowOrigins,
		AuthMiddleware:     middleware.Auth,
		HealthcheckHandler: handlers.Healthcheck,
		CatalogHandler:     handlers.Catalog,
		SamplingHandler:    handlers.Sampling,
		QCPlanHandler:      handlers.QCPlan,
		ComponentHandler:   handlers.Component,
		AuditHandler:       handlers.Audit,
	})
}
