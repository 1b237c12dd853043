package service

import (
	"errors"
	"fmt"

	"finreport/internal/model"

	"github.com/shopspring/decimal"
)

// Monetary inputs are IDR; derived figures are reported in millions.
var million = decimal.NewFromInt(1_000_000)

var ErrRowNotFound = errors.New("no metrics row")

type MetricsService interface {
	Transform(ds model.Dataset) ([]model.MetricsRow, error)
}

type metricsService struct{}

func NewMetricsService() MetricsService {
	return &metricsService{}
}

// Transform joins each transaction to its year's tax rate and derives profit
// and tax. Output rows follow input order; no rounding is applied.
func (s *metricsService) Transform(ds model.Dataset) ([]model.MetricsRow, error) {
	policies := model.IndexPolicies(ds.FiscalPolicies)
	rows := make([]model.MetricsRow, 0, len(ds.Transactions))

	for _, t := range ds.Transactions {
		policy, err := policies.Lookup(t.Year)
		if err != nil {
			return nil, fmt.Errorf("transaction %d %q: %w", t.Year, t.Scenario, err)
		}

		preTax := t.Revenue.Sub(t.OperatingExpense).Sub(t.Depreciation).Div(million)
		tax := decimal.Zero
		if !t.Scenario.TaxExempt() {
			tax = preTax.Mul(policy.TaxRate)
		}

		rows = append(rows, model.MetricsRow{
			Year:             t.Year,
			Scenario:         t.Scenario,
			TaxRate:          policy.TaxRate,
			Revenue:          t.Revenue.Div(million),
			OperatingExpense: t.OperatingExpense.Div(million),
			Depreciation:     t.Depreciation.Div(million),
			PreTaxProfit:     preTax,
			Tax:              tax,
			NetProfit:        preTax.Sub(tax),
		})
	}
	return rows, nil
}

// FindRow returns the single row for (year, scenario).
func FindRow(rows []model.MetricsRow, year int, scenario model.Scenario) (model.MetricsRow, error) {
	for _, r := range rows {
		if r.Year == year && r.Scenario == scenario {
			return r, nil
		}
	}
	return model.MetricsRow{}, fmt.Errorf("%w for %d %q", ErrRowNotFound, year, scenario)
}
