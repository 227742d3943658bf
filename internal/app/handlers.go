package app

import (
	"github.com/titanfab/qcmaster-backend/internal/handlers"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Catalog     *handlers.CatalogHandler
	Sampling    *handlers.SamplingHandler
	QCPlan      *handlers.QCPlanHandler
	Component   *handlers.ComponentHandler
	Audit       *handlers.AuditHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(log),
		Catalog:     handlers.NewCatalogHandler(log, services.Catalog),
		Sampling:    handlers.NewSamplingHandler(log, services.Sampling),
		QCPlan:      handlers.NewQCPlanHandler(log, services.QCPlan),
		Component:   handlers.NewComponentHandler(log, services.Component),
		Audit:       handlers.NewAuditHandler(log, services.Audit),
	}
}
