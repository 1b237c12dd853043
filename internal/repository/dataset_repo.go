package repository

import (
	"context"
	"fmt"
	"sort"

	"finreport/internal/model"

	"gorm.io/gorm"
)

// DatasetRepository reads and seeds the three input tables.
type DatasetRepository interface {
	Load(ctx context.Context) (model.Dataset, error)
	ListAssets(ctx context.Context) ([]model.Asset, error)
	ListFiscalPolicies(ctx context.Context) ([]model.FiscalPolicy, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	Replace(ctx context.Context, ds model.Dataset) error
}

type datasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) String() string {
	return "database:" + r.db.Dialector.Name()
}

// Load reads all three tables and validates them through the model parsers.
func (r *datasetRepository) Load(ctx context.Context) (model.Dataset, error) {
	var ds model.Dataset
	var err error

	if ds.Assets, err = r.ListAssets(ctx); err != nil {
		return model.Dataset{}, err
	}
	if ds.FiscalPolicies, err = r.ListFiscalPolicies(ctx); err != nil {
		return model.Dataset{}, err
	}
	if ds.Transactions, err = r.ListTransactions(ctx); err != nil {
		return model.Dataset{}, err
	}

	for i, a := range ds.Assets {
		method, err := model.ParseDepreciationMethod(string(a.Method))
		if err != nil {
			return model.Dataset{}, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		ds.Assets[i].Method = method
	}
	for i, t := range ds.Transactions {
		scenario, err := model.ParseScenario(string(t.Scenario))
		if err != nil {
			return model.Dataset{}, fmt.Errorf("transaction %d: %w", t.Year, err)
		}
		ds.Transactions[i].Scenario = scenario
	}

	if err := ds.Validate(); err != nil {
		return model.Dataset{}, err
	}
	return ds, nil
}

func (r *datasetRepository) ListAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := GetDB(ctx, r.db).Order("id").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, nil
}

func (r *datasetRepository) ListFiscalPolicies(ctx context.Context) ([]model.FiscalPolicy, error) {
	var policies []model.FiscalPolicy
	if err := GetDB(ctx, r.db).Order("year").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch fiscal policies: %w", err)
	}
	return policies, nil
}

// ListTransactions groups rows by scenario in model.Scenarios order, then by year.
func (r *datasetRepository) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := GetDB(ctx, r.db).Order("year").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Scenario.Rank() < txs[j].Scenario.Rank()
	})
	return txs, nil
}

// Replace swaps the stored tables for ds. Callers wrap it in RunInTx.
func (r *datasetRepository) Replace(ctx context.Context, ds model.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	db := GetDB(ctx, r.db)

	for _, m := range []interface{}{&model.Transaction{}, &model.FiscalPolicy{}, &model.Asset{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	if len(ds.Assets) > 0 {
		if err := db.Create(&ds.Assets).Error; err != nil {
			return fmt.Errorf("failed to store assets: %w", err)
		}
	}
	if len(ds.FiscalPolicies) > 0 {
		if err := db.Create(&ds.FiscalPolicies).Error; err != nil {
			return fmt.Errorf("failed to store fiscal policies: %w", err)
		}
	}
	if len(ds.Transactions) > 0 {
		if err := db.Create(&ds.Transactions).Error; err != nil {
			return fmt.Errorf("failed to store transactions: %w", err)
		}
	}
	return nil
}
