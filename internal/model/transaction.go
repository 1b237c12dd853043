package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scenario enum constants
type Scenario string

const (
	ScenarioNormal           Scenario = "Normal"
	ScenarioTaxHoliday       Scenario = "Tax Holiday"
	ScenarioMethodComparison Scenario = "Perbandingan metode depresiasi" // Depreciation method comparison
)

// Scenarios lists the known scenarios in reporting order.
var Scenarios = []Scenario{ScenarioNormal, ScenarioTaxHoliday, ScenarioMethodComparison}

var ErrUnknownScenario = errors.New("unknown scenario")

func ParseScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return ScenarioNormal, nil
	case "tax holiday", "tax_holiday":
		return ScenarioTaxHoliday, nil
	case "perbandingan metode depresiasi", "method_comparison", "depreciation method comparison":
		return ScenarioMethodComparison, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Rank is the position in Scenarios; unknown scenarios sort last.
func (s Scenario) Rank() int {
	for i, known := range Scenarios {
		if s == known {
			return i
		}
	}
	return len(Scenarios)
}

// TaxExempt is true for scenarios in which tax liability is waived.
func (s Scenario) TaxExempt() bool {
	return s == ScenarioTaxHoliday
}

// Transaction is one year of aggregated income statement figures under a scenario
type Transaction struct {
	Year             int             `gorm:"primaryKey;autoIncrement:false" json:"year"`
	Scenario         Scenario        `gorm:"type:varchar(60);primaryKey" json:"scenario"`
	Revenue          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"revenue"`           // IDR
	OperatingExpense decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"operating_expense"` // IDR
	Depreciation     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"depreciation"`      // IDR
}

func (t Transaction) Validate() error {
	if _, err := ParseScenario(string(t.Scenario)); err != nil {
		return fmt.Errorf("transaction %d: %w", t.Year, err)
	}
	return nil
}

// Dataset bundles the three input tables
type Dataset struct {
	Assets         []Asset        `json:"assets"`
	FiscalPolicies []FiscalPolicy `json:"fiscal_policies"`
	Transactions   []Transaction  `json:"transactions"`
}

// Validate checks every row plus the uniqueness of (year, scenario).
func (d Dataset) Validate() error {
	for _, a := range d.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	for _, p := range d.FiscalPolicies {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	type key struct {
		year     int
		scenario Scenario
	}
	seen := make(map[key]bool, len(d.Transactions))
	for _, t := range d.Transactions {
		if err := t.Validate(); err != nil {
			return err
		}
		k := key{t.Year, t.Scenario}
		if seen[k] {
			return fmt.Errorf("duplicate transaction for %d %q", t.Year, t.Scenario)
		}
		seen[k] = true
	}
	return nil
}
