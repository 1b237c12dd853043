// Package dataset reads the three input tables from TOML, either the copy
// embedded in the binary or a file on disk.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"finreport/internal/model"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

//go:embed default.toml
var defaultTables []byte

const dateLayout = "2006-01-02"

type assetRecord struct {
	ID               string `toml:"id"`
	Category         string `toml:"category"`
	AcquisitionValue string `toml:"acquisition_value"`
	UsefulLife       int    `toml:"useful_life"`
	Method           string `toml:"method"`
}

type policyRecord struct {
	Year         int    `toml:"year"`
	TaxRate      string `toml:"tax_rate"`
	HolidayStart string `toml:"tax_holiday_start"`
	HolidayEnd   string `toml:"tax_holiday_end"`
}

type transactionRecord struct {
	Year             int    `toml:"year"`
	Scenario         string `toml:"scenario"`
	Revenue          string `toml:"revenue"`
	OperatingExpense string `toml:"operating_expense"`
	Depreciation     string `toml:"depreciation"`
}

type document struct {
	Assets         []assetRecord       `toml:"assets"`
	FiscalPolicies []policyRecord      `toml:"fiscal_policies"`
	Transactions   []transactionRecord `toml:"transactions"`
}

// Source loads a dataset from TOML bytes
type Source struct {
	name string
	read func() ([]byte, error)
}

// Embedded returns the built-in tables.
func Embedded() *Source {
	return &Source{
		name: "embedded",
		read: func() ([]byte, error) { return defaultTables, nil },
	}
}

// FromFile reads the tables from path on every Load.
func FromFile(path string) *Source {
	return &Source{
		name: path,
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

func (s *Source) String() string {
	return "toml:" + s.name
}

func (s *Source) Load(ctx context.Context) (model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return model.Dataset{}, err
	}
	data, err := s.read()
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", s.name, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset %s: %w", s.name, err)
	}
	return ds, nil
}

// Parse decodes and validates a TOML dataset document.
func Parse(data []byte) (model.Dataset, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return model.Dataset{}, fmt.Errorf("invalid toml: %w", err)
	}

	var ds model.Dataset
	for _, r := range doc.Assets {
		a, err := r.toModel()
		if err != nil {
			return model.Dataset{}, err
		}
		ds.Assets = append(ds.Assets, a)
	}
	for _, r := range doc.FiscalPolicies {
		p, err := r.toModel()
		if err != nil {
			return model.Dataset{}, err
		}
		ds.FiscalPolicies = append(ds.FiscalPolicies, p)
	}
	for _, r := range doc.Transactions {
		t, err := r.toModel()
		if err != nil {
			return model.Dataset{}, err
		}
		ds.Transactions = append(ds.Transactions, t)
	}

	if err := ds.Validate(); err != nil {
		return model.Dataset{}, err
	}
	return ds, nil
}

func (r assetRecord) toModel() (model.Asset, error) {
	value, err := decimal.NewFromString(r.AcquisitionValue)
	if err != nil {
		return model.Asset{}, fmt.Errorf("asset %s: invalid acquisition_value: %w", r.ID, err)
	}
	method, err := model.ParseDepreciationMethod(r.Method)
	if err != nil {
		return model.Asset{}, fmt.Errorf("asset %s: %w", r.ID, err)
	}
	return model.Asset{
		ID:               r.ID,
		Category:         r.Category,
		AcquisitionValue: value,
		UsefulLife:       r.UsefulLife,
		Method:           method,
	}, nil
}

func (r policyRecord) toModel() (model.FiscalPolicy, error) {
	rate, err := decimal.NewFromString(r.TaxRate)
	if err != nil {
		return model.FiscalPolicy{}, fmt.Errorf("fiscal policy %d: invalid tax_rate: %w", r.Year, err)
	}
	start, err := time.Parse(dateLayout, r.HolidayStart)
	if err != nil {
		return model.FiscalPolicy{}, fmt.Errorf("fiscal policy %d: invalid tax_holiday_start (expected YYYY-MM-DD): %w", r.Year, err)
	}
	end, err := time.Parse(dateLayout, r.HolidayEnd)
	if err != nil {
		return model.FiscalPolicy{}, fmt.Errorf("fiscal policy %d: invalid tax_holiday_end (expected YYYY-MM-DD): %w", r.Year, err)
	}
	return model.FiscalPolicy{
		Year:         r.Year,
		TaxRate:      rate,
		HolidayStart: start,
		HolidayEnd:   end,
	}, nil
}

func (r transactionRecord) toModel() (model.Transaction, error) {
	scenario, err := model.ParseScenario(r.Scenario)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", r.Year, err)
	}
	amounts := make([]decimal.Decimal, 3)
	for i, raw := range []string{r.Revenue, r.OperatingExpense, r.Depreciation} {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %d %q: invalid amount %q: %w", r.Year, r.Scenario, raw, err)
		}
		amounts[i] = v
	}
	return model.Transaction{
		Year:             r.Year,
		Scenario:         scenario,
		Revenue:          amounts[0],
		OperatingExpense: amounts[1],
		Depreciation:     amounts[2],
	}, nil
}
