package main

import (
	"context"
	"log"

	"finreport/internal/config"
	"finreport/internal/database"
	"finreport/internal/dataset"
	"finreport/internal/repository"
	"finreport/internal/service"
)

// Loads the embedded tables (or DATASET_PATH) into the configured database.
func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN is required to seed")
	}

	db, err := database.NewConnection(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	var source service.DatasetSource = dataset.Embedded()
	if cfg.DatasetPath != "" {
		source = dataset.FromFile(cfg.DatasetPath)
	}

	ctx := context.Background()
	ds, err := source.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	repo := repository.NewDatasetRepository(db)
	err = repository.NewTransactionManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		return repo.Replace(txCtx, ds)
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d assets, %d fiscal policies, %d transactions", len(ds.Assets), len(ds.FiscalPolicies), len(ds.Transactions))
}
