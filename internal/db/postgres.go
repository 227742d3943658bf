package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService opens the primary database. DB_DRIVER=sqlite switches to a
// local file database for development; everything else goes to Postgres.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	driver := utils.GetEnv("DB_DRIVER", "postgres", log)

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "qcmaster.db", log)
		dialector = sqlite.Open(path)
	default:
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "qcmaster", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	}

	serviceLog.Info("Connecting to database...", "driver", driver)
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// NewWithDB wraps an already open connection. Used by tests.
func NewWithDB(db *gorm.DB, log *logger.Logger) *PostgresService {
	return &PostgresService{db: db, log: log.With("service", "PostgresService")}
}

func (s *PostgresService) AutoMigrateAll() error {
	if s.db.Dialector.Name() == "postgres" {
		// uuid_generate_v4() backs every primary key default.
		if err := s.db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return fmt.Errorf("enable uuid-ossp extension: %w", err)
		}
	}

	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.ProductCategory{},
		&types.ProductGroup{},
		&types.Unit{},
		&types.Instrument{},
		&types.Vendor{},
		&types.Department{},
		&types.DefectType{},
		&types.RejectionReason{},
		&types.Location{},
		&types.SystemConfig{},
		&types.SamplingPlan{},
		&types.LotSizeBand{},
		&types.QCPlan{},
		&types.QCPlanStage{},
		&types.QCPlanParameter{},
		&types.Component{},
		&types.CheckingParameter{},
		&types.Specification{},
		&types.VendorLink{},
		&types.ComponentDocument{},
		&types.AuditLog{},
		&types.ComponentHistory{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}

	if s.db.Dialector.Name() != "postgres" {
		return nil
	}

	s.log.Info("Configuring foreign key cascades...")
	// Child rows of an aggregate root cascade only on root deletion; ordinary
	// child replacement is done by explicit delete + insert in the services.
	cascades := []struct{ table, constraint, column, refTable string }{
		{"qc_sampling_plan_bands", "fk_band_sampling_plan", "sampling_plan_id", "qc_sampling_plans"},
		{"qc_plan_stages", "fk_stage_qc_plan", "qc_plan_id", "qc_plans"},
		{"qc_plan_parameters", "fk_parameter_qc_plan_stage", "qc_plan_stage_id", "qc_plan_stages"},
		{"qc_component_checking_params", "fk_checking_param_component", "component_id", "qc_component_master"},
		{"qc_component_specifications", "fk_specification_component", "component_id", "qc_component_master"},
		{"qc_component_vendors", "fk_vendor_link_component", "component_id", "qc_component_master"},
		{"qc_component_documents", "fk_document_component", "component_id", "qc_component_master"},
		{"qc_component_history", "fk_history_component", "component_id", "qc_component_master"},
	}
	for _, c := range cascades {
		stmt := fmt.Sprintf(`
			ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q;
			ALTER TABLE %q ADD CONSTRAINT %q
			FOREIGN KEY (%q) REFERENCES %q("id") ON DELETE CASCADE
		`, c.table, c.constraint, c.table, c.constraint, c.column, c.refTable)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.constraint, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
