// Package chart builds renderer-independent chart models from derived
// metrics and the asset register, and renders them to HTML with go-echarts.
package chart

import (
	"fmt"
	"sort"

	"finreport/internal/model"

	"github.com/shopspring/decimal"
)

// Color scheme
const (
	White    = "#FFFFFF"
	RoseGold = "#B76E79"
	Maroon   = "#800000"
	Gray     = "#808080"
)

// Theme is shared by both charts and the summary table
type Theme struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

var DefaultTheme = Theme{Background: White, Text: Maroon, Border: Gray}

// ScenarioColor is the bar color for a scenario.
func ScenarioColor(s model.Scenario) string {
	switch s {
	case model.ScenarioTaxHoliday:
		return RoseGold
	case model.ScenarioNormal:
		return Maroon
	default:
		return Gray
	}
}

var million = decimal.NewFromInt(1_000_000)

// BarSeries is one metric for one scenario across the years. A nil value
// marks a year without a transaction row.
type BarSeries struct {
	Name     string         `json:"name"`
	Metric   model.Metric   `json:"metric"`
	Scenario model.Scenario `json:"scenario"`
	Values   []*float64     `json:"values"`
	Color    string         `json:"color"`
	Visible  bool           `json:"visible"`
}

// BarChart groups bars by year; one metric's series are visible at a time.
type BarChart struct {
	Title    string       `json:"title"`
	XTitle   string       `json:"x_title"`
	YTitle   string       `json:"y_title"`
	Years    []int        `json:"years"`
	Selected model.Metric `json:"selected"`
	Series   []BarSeries  `json:"series"`
	Theme    Theme        `json:"theme"`
}

// NewBarChart builds a series per metric and scenario, scenarios in
// first-seen order, with revenue selected.
func NewBarChart(rows []model.MetricsRow) *BarChart {
	var scenarios []model.Scenario
	seenScenario := make(map[model.Scenario]bool)
	seenYear := make(map[int]bool)
	var years []int
	for _, r := range rows {
		if !seenScenario[r.Scenario] {
			seenScenario[r.Scenario] = true
			scenarios = append(scenarios, r.Scenario)
		}
		if !seenYear[r.Year] {
			seenYear[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)

	c := &BarChart{
		XTitle: "Year",
		YTitle: "Amount (Million IDR)",
		Years:  years,
		Theme:  DefaultTheme,
	}
	for _, m := range model.ChartMetrics {
		for _, sc := range scenarios {
			values := make([]*float64, len(years))
			for _, r := range rows {
				if r.Scenario != sc {
					continue
				}
				v := r.Value(m).InexactFloat64()
				values[sort.SearchInts(years, r.Year)] = &v
			}
			c.Series = append(c.Series, BarSeries{
				Name:     fmt.Sprintf("%s - %s", sc, m.Label()),
				Metric:   m,
				Scenario: sc,
				Values:   values,
				Color:    ScenarioColor(sc),
			})
		}
	}
	// Revenue is always a known metric.
	_ = c.Select(model.MetricRevenue)
	return c
}

// Select shows exactly the series of metric m and retitles the chart.
func (c *BarChart) Select(m model.Metric) error {
	if _, err := model.ParseMetric(string(m)); err != nil {
		return err
	}
	for i := range c.Series {
		c.Series[i].Visible = c.Series[i].Metric == m
	}
	c.Selected = m
	c.Title = c.TitleFor(m)
	return nil
}

// TitleFor is the chart title while metric m is selected.
func (c *BarChart) TitleFor(m model.Metric) string {
	return fmt.Sprintf("%s by Scenario%s", m.Label(), c.yearSpan())
}

// MetricOption is one entry of the metric selector: the title to show and
// the series to make visible.
type MetricOption struct {
	Metric model.Metric `json:"metric"`
	Label  string       `json:"label"`
	Title  string       `json:"title"`
	Series []string     `json:"series"`
}

func (c *BarChart) MetricOptions() []MetricOption {
	out := make([]MetricOption, 0, len(model.ChartMetrics))
	for _, m := range model.ChartMetrics {
		opt := MetricOption{Metric: m, Label: m.Label(), Title: c.TitleFor(m), Series: []string{}}
		for _, s := range c.Series {
			if s.Metric == m {
				opt.Series = append(opt.Series, s.Name)
			}
		}
		out = append(out, opt)
	}
	return out
}

// Visible lists the series currently shown.
func (c *BarChart) Visible() []BarSeries {
	var out []BarSeries
	for _, s := range c.Series {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

func (c *BarChart) yearSpan() string {
	if len(c.Years) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d-%d)", c.Years[0], c.Years[len(c.Years)-1])
}

// PieSlice is the acquisition value of one asset category, in millions
type PieSlice struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
	Color    string          `json:"color"`
}

type PieChart struct {
	Title  string     `json:"title"`
	Slices []PieSlice `json:"slices"`
	Theme  Theme      `json:"theme"`
}

var piePalette = []string{RoseGold, Maroon, Gray}

// NewPieChart sums acquisition value per category, categories sorted by name.
func NewPieChart(assets []model.Asset) *PieChart {
	sums := make(map[string]decimal.Decimal)
	for _, a := range assets {
		sums[a.Category] = sums[a.Category].Add(a.AcquisitionValue)
	}
	categories := make([]string, 0, len(sums))
	for c := range sums {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	p := &PieChart{
		Title: "Fixed Asset Distribution (Million IDR)",
		Theme: DefaultTheme,
	}
	for i, c := range categories {
		p.Slices = append(p.Slices, PieSlice{
			Category: c,
			Value:    sums[c].Div(million),
			Color:    piePalette[i%len(piePalette)],
		})
	}
	return p
}

func (p *PieChart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Slices {
		total = total.Add(s.Value)
	}
	return total
}
