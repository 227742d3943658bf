package app

import (
	"gorm.io/gorm"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/services"
)

type Services struct {
	Audit     services.AuditService
	Catalog   services.CatalogService
	Sampling  services.SamplingService
	QCPlan    services.QCPlanService
	Component services.ComponentService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos) Services {
	log.Info("Wiring services...")
	auditService := services.NewAuditService(db, log, repos.Audit)
	return Services{
		Audit: auditService,
		Catalog: services.NewCatalogService(
			db,
			log,
			repos.Category,
			repos.Group,
			repos.Unit,
			repos.Instrument,
			repos.Vendor,
			repos.Department,
			repos.Lookup,
			repos.SysConfig,
			repos.Component,
			repos.QCPlan,
			auditService,
		),
		Sampling: services.NewSamplingService(
			db,
			log,
			repos.Sampling,
			repos.QCPlan,
			repos.Component,
			auditService,
		),
		QCPlan: services.NewQCPlanService(
			db,
			log,
			repos.QCPlan,
			repos.Sampling,
			repos.Unit,
			repos.Instrument,
			repos.Component,
			auditService,
		),
		Component: services.NewComponentService(
			db,
			log,
			repos.Component,
			repos.Document,
			repos.Category,
			repos.Group,
			repos.Unit,
			repos.Instrument,
			repos.Vendor,
			repos.Department,
			repos.QCPlan,
			repos.Sampling,
			auditService,
		),
	}
}
