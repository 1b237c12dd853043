package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Metric enum constants selectable on the bar chart
type Metric string

const (
	MetricRevenue          Metric = "revenue"
	MetricOperatingExpense Metric = "operating_expense"
	MetricNetProfit        Metric = "net_profit"
)

// ChartMetrics lists the bar chart metrics in display order.
var ChartMetrics = []Metric{MetricRevenue, MetricOperatingExpense, MetricNetProfit}

var ErrUnknownMetric = errors.New("unknown metric")

func ParseMetric(s string) (Metric, error) {
	for _, m := range ChartMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

func (m Metric) Label() string {
	switch m {
	case MetricRevenue:
		return "Revenue"
	case MetricOperatingExpense:
		return "Operating Expense"
	case MetricNetProfit:
		return "Net Profit"
	}
	return string(m)
}

// MetricsRow holds the derived figures of one transaction, in millions of IDR
type MetricsRow struct {
	Year             int             `json:"year"`
	Scenario         Scenario        `json:"scenario"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Revenue          decimal.Decimal `json:"revenue"`
	OperatingExpense decimal.Decimal `json:"operating_expense"`
	Depreciation     decimal.Decimal `json:"depreciation"`
	PreTaxProfit     decimal.Decimal `json:"pre_tax_profit"`
	Tax              decimal.Decimal `json:"tax"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// Value returns the figure a chart metric plots.
func (r MetricsRow) Value(m Metric) decimal.Decimal {
	switch m {
	case MetricRevenue:
		return r.Revenue
	case MetricOperatingExpense:
		return r.OperatingExpense
	case MetricNetProfit:
		return r.NetProfit
	}
	return decimal.Zero
}
