// Package app wires the dataset source and services from configuration.
package app

import (
	"log"

	"finreport/internal/config"
	"finreport/internal/database"
	"finreport/internal/dataset"
	"finreport/internal/repository"
	"finreport/internal/service"

	"gorm.io/gorm"
)

// Services is the dependency graph shared by the commands
type Services struct {
	Source       service.DatasetSource
	Depreciation service.DepreciationService
	Metrics      service.MetricsService
	Reports      service.ReportService
	DB           *gorm.DB // nil unless DATABASE_DSN is set
}

// NewSource picks the database when a DSN is configured, then a dataset
// file, then the embedded tables.
func NewSource(cfg *config.Config) (service.DatasetSource, *gorm.DB, error) {
	switch {
	case cfg.DatabaseDSN != "":
		db, err := database.NewConnection(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Reading input tables from %s database", cfg.DBDriver)
		return repository.NewDatasetRepository(db), db, nil
	case cfg.DatasetPath != "":
		log.Printf("Reading input tables from %s", cfg.DatasetPath)
		return dataset.FromFile(cfg.DatasetPath), nil, nil
	default:
		log.Println("Using embedded input tables")
		return dataset.Embedded(), nil, nil
	}
}

func NewServices(cfg *config.Config) (*Services, error) {
	source, db, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	return WithSource(source, db), nil
}

// WithSource builds the services around an existing source.
func WithSource(source service.DatasetSource, db *gorm.DB) *Services {
	depreciation := service.NewDepreciationService()
	metrics := service.NewMetricsService()
	return &Services{
		Source:       source,
		Depreciation: depreciation,
		Metrics:      metrics,
		Reports:      service.NewReportService(source, depreciation, metrics),
		DB:           db,
	}
}

// ReportOptions maps the fact settings onto report options.
func ReportOptions(cfg *config.Config) service.ReportOptions {
	opts := service.DefaultReportOptions()
	opts.FactScenario = cfg.FactScenario
	opts.FactFrom = cfg.FactFromYear
	opts.FactTo = cfg.FactToYear
	return opts
}
