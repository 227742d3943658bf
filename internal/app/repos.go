package app

import (
	"gorm.io/gorm"

	auditrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/audit"
	catalogrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/catalog"
	componentrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/component"
	qcplanrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/qcplan"
	samplingrepo "github.com/titanfab/qcmaster-backend/internal/data/repos/sampling"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

type Repos struct {
	Category   catalogrepo.CategoryRepo
	Group      catalogrepo.GroupRepo
	Unit       catalogrepo.UnitRepo
	Instrument catalogrepo.InstrumentRepo
	Vendor     catalogrepo.VendorRepo
	Department catalogrepo.DepartmentRepo
	Lookup     catalogrepo.LookupRepo
	SysConfig  catalogrepo.SystemConfigRepo
	Sampling   samplingrepo.PlanRepo
	QCPlan     qcplanrepo.PlanRepo
	Component  componentrepo.ComponentRepo
	Document   componentrepo.DocumentRepo
	Audit      auditrepo.AuditRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Category:   catalogrepo.NewCategoryRepo(db, log),
		Group:      catalogrepo.NewGroupRepo(db, log),
		Unit:       catalogrepo.NewUnitRepo(db, log),
		Instrument: catalogrepo.NewInstrumentRepo(db, log),
		Vendor:     catalogrepo.NewVendorRepo(db, log),
		Department: catalogrepo.NewDepartmentRepo(db, log),
		Lookup:     catalogrepo.NewLookupRepo(db, log),
		SysConfig:  catalogrepo.NewSystemConfigRepo(db, log),
		Sampling:   samplingrepo.NewPlanRepo(db, log),
		QCPlan:     qcplanrepo.NewPlanRepo(db, log),
		Component:  componentrepo.NewComponentRepo(db, log),
		Document:   componentrepo.NewDocumentRepo(db, log),
		Audit:      auditrepo.NewAuditRepo(db, log),
	}
}
