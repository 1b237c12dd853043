package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finreport/internal/database"
	"finreport/internal/dataset"
	"finreport/internal/model"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection(database.DriverSQLite, filepath.Join(t.TempDir(), "finreport.db"))
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seed(t *testing.T, db *gorm.DB) model.Dataset {
	t.Helper()
	ds, err := dataset.Embedded().Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	repo := NewDatasetRepository(db)
	err = NewTransactionManager(db).RunInTx(context.Background(), func(txCtx context.Context) error {
		return repo.Replace(txCtx, ds)
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	return ds
}

func TestDatasetRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	want := seed(t, db)

	got, err := NewDatasetRepository(db).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Assets) != len(want.Assets) || len(got.FiscalPolicies) != len(want.FiscalPolicies) || len(got.Transactions) != len(want.Transactions) {
		t.Fatalf("loaded %d/%d/%d rows", len(got.Assets), len(got.FiscalPolicies), len(got.Transactions))
	}

	a := got.Assets[4]
	if a.ID != "A005" || a.Method != model.MethodDecliningBalance || !a.AcquisitionValue.Equal(want.Assets[4].AcquisitionValue) {
		t.Errorf("A005 = %+v", a)
	}
	if !got.FiscalPolicies[2].TaxRate.Equal(want.FiscalPolicies[2].TaxRate) {
		t.Errorf("2025 tax rate = %s", got.FiscalPolicies[2].TaxRate)
	}
	if got.FiscalPolicies[0].HolidayEnd.Format("2006-01-02") != "2023-12-31" {
		t.Errorf("2023 holiday end = %s", got.FiscalPolicies[0].HolidayEnd)
	}

	// Scenarios come back in reporting order, years ascending within each.
	if got.Transactions[0].Scenario != model.ScenarioNormal || got.Transactions[0].Year != 2023 {
		t.Errorf("first transaction = %d %s", got.Transactions[0].Year, got.Transactions[0].Scenario)
	}
	if got.Transactions[5].Scenario != model.ScenarioTaxHoliday {
		t.Errorf("sixth transaction scenario = %s", got.Transactions[5].Scenario)
	}
	if got.Transactions[14].Scenario != model.ScenarioMethodComparison || got.Transactions[14].Year != 2027 {
		t.Errorf("last transaction = %d %s", got.Transactions[14].Year, got.Transactions[14].Scenario)
	}
}

func TestReplaceOverwrites(t *testing.T) {
	db := openTestDB(t)
	ds := seed(t, db)
	repo := NewDatasetRepository(db)

	ds.Assets = ds.Assets[:1]
	if err := repo.Replace(context.Background(), ds); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	assets, err := repo.ListAssets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 {
		t.Errorf("assets = %d, want 1", len(assets))
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewDatasetRepository(db)
	fail := errors.New("abort")

	err := NewTransactionManager(db).RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := repo.Replace(txCtx, model.Dataset{}); err != nil {
			return err
		}
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("RunInTx() error = %v", err)
	}

	assets, err := repo.ListAssets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 5 {
		t.Errorf("assets after rollback = %d, want 5", len(assets))
	}
}

func TestLoadRejectsUnknownScenario(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	if err := db.Exec("UPDATE transactions SET scenario = ? WHERE year = ? AND scenario = ?", "Optimistic", 2023, "Normal").Error; err != nil {
		t.Fatal(err)
	}
	if _, err := NewDatasetRepository(db).Load(context.Background()); !errors.Is(err, model.ErrUnknownScenario) {
		t.Errorf("Load() error = %v, want ErrUnknownScenario", err)
	}
}
