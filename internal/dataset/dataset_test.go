package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finreport/internal/model"
)

func TestEmbeddedLoads(t *testing.T) {
	ds, err := Embedded().Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Assets) != 5 {
		t.Errorf("assets = %d, want 5", len(ds.Assets))
	}
	if len(ds.FiscalPolicies) != 5 {
		t.Errorf("fiscal policies = %d, want 5", len(ds.FiscalPolicies))
	}
	if len(ds.Transactions) != 15 {
		t.Errorf("transactions = %d, want 15", len(ds.Transactions))
	}

	a := ds.Assets[0]
	if a.ID != "A001" || a.Category != "Mesin" || a.UsefulLife != 10 || a.Method != model.MethodStraightLine {
		t.Errorf("first asset = %+v", a)
	}
	if a.AcquisitionValue.String() != "500000000" {
		t.Errorf("A001 value = %s", a.AcquisitionValue)
	}
	if ds.Assets[2].Method != model.MethodDecliningBalance {
		t.Errorf("A003 method = %s, want declining balance", ds.Assets[2].Method)
	}
	if got := ds.FiscalPolicies[0].TaxRate.String(); got != "0.22" {
		t.Errorf("2023 tax rate = %s", got)
	}
	if ds.Transactions[14].Scenario != model.ScenarioMethodComparison {
		t.Errorf("last scenario = %q", ds.Transactions[14].Scenario)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown method",
			doc: `[[assets]]
id = "X"
category = "Mesin"
acquisition_value = "1"
useful_life = 1
method = "sum of years"`,
			want: model.ErrUnknownMethod,
		},
		{
			name: "unknown scenario",
			doc: `[[transactions]]
year = 2023
scenario = "Optimistic"
revenue = "1"
operating_expense = "1"
depreciation = "1"`,
			want: model.ErrUnknownScenario,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformedAmountsAndDates(t *testing.T) {
	docs := map[string]string{
		"amount": `[[transactions]]
year = 2023
scenario = "Normal"
revenue = "lots"
operating_expense = "1"
depreciation = "1"`,
		"date": `[[fiscal_policies]]
year = 2023
tax_rate = "0.22"
tax_holiday_start = "01/01/2023"
tax_holiday_end = "2023-12-31"`,
		"duplicate": `[[transactions]]
year = 2023
scenario = "Normal"
revenue = "1"
operating_expense = "1"
depreciation = "1"
[[transactions]]
year = 2023
scenario = "Normal"
revenue = "2"
operating_expense = "1"
depreciation = "1"`,
	}
	for name, doc := range docs {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: Parse() error = nil, want error", name)
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.toml")
	if err := os.WriteFile(path, defaultTables, 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := FromFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Transactions) != 15 {
		t.Errorf("transactions = %d, want 15", len(ds.Transactions))
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.toml")).Load(context.Background()); err == nil {
		t.Error("Load() of missing file error = nil")
	}
}
