package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"finreport/internal/chart"
	"finreport/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var ErrZeroBase = errors.New("base net profit is zero")

var hundred = decimal.NewFromInt(100)

// --- DTOs ---

// Fact is the percentage change in net profit for one scenario between two years
type Fact struct {
	Scenario model.Scenario  `json:"scenario"`
	FromYear int             `json:"from_year"`
	ToYear   int             `json:"to_year"`
	From     decimal.Decimal `json:"from_net_profit"`
	To       decimal.Decimal `json:"to_net_profit"`
	Change   decimal.Decimal `json:"change_percent"`
	Percent  string          `json:"percent"` // Change rounded to 2 decimals
}

func (f Fact) Sentence() string {
	if f.Change.IsNegative() {
		return fmt.Sprintf("Net profit in the %s scenario decreases by %s%% from %d to %d.",
			f.Scenario, f.Change.Abs().StringFixed(2), f.FromYear, f.ToYear)
	}
	return fmt.Sprintf("Net profit in the %s scenario increases by %s%% from %d to %d, showcasing strong financial growth.",
		f.Scenario, f.Percent, f.FromYear, f.ToYear)
}

// SummaryRow is a metrics row rounded to 2 decimals for display
type SummaryRow struct {
	Year             int             `json:"year"`
	Scenario         model.Scenario  `json:"scenario"`
	Revenue          decimal.Decimal `json:"revenue"`
	OperatingExpense decimal.Decimal `json:"operating_expense"`
	Depreciation     decimal.Decimal `json:"depreciation"`
	PreTaxProfit     decimal.Decimal `json:"pre_tax_profit"`
	Tax              decimal.Decimal `json:"tax"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// SummaryHeaders names the summary columns in order.
var SummaryHeaders = []string{"Year", "Scenario", "Revenue", "Operating Expense", "Depreciation", "Pre-Tax Profit", "Tax", "Net Profit"}

// Cells formats a summary row in SummaryHeaders order.
func (r SummaryRow) Cells() []string {
	return []string{
		strconv.Itoa(r.Year),
		string(r.Scenario),
		r.Revenue.StringFixed(2),
		r.OperatingExpense.StringFixed(2),
		r.Depreciation.StringFixed(2),
		r.PreTaxProfit.StringFixed(2),
		r.Tax.StringFixed(2),
		r.NetProfit.StringFixed(2),
	}
}

type ReportOptions struct {
	FactScenario model.Scenario
	FactFrom     int
	FactTo       int
	Metric       model.Metric
}

func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		FactScenario: model.ScenarioNormal,
		FactFrom:     2023,
		FactTo:       2027,
		Metric:       model.MetricRevenue,
	}
}

// Report is everything one run produces from a dataset
type Report struct {
	RunID        string             `json:"run_id"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Source       string             `json:"source"`
	Dataset      model.Dataset      `json:"-"`
	Metrics      []model.MetricsRow `json:"metrics"`
	Fact         Fact               `json:"fact"`
	Summary      []SummaryRow       `json:"summary"`
	Depreciation DepreciationTable  `json:"depreciation"`
	Bar          *chart.BarChart    `json:"bar_chart"`
	Pie          *chart.PieChart    `json:"pie_chart"`
}

// DatasetSource supplies the three input tables.
type DatasetSource interface {
	Load(ctx context.Context) (model.Dataset, error)
}

// --- Interface ---

type ReportService interface {
	Build(ctx context.Context, opts ReportOptions) (*Report, error)
	NetProfitGrowth(rows []model.MetricsRow, scenario model.Scenario, fromYear, toYear int) (Fact, error)
	Summary(rows []model.MetricsRow) []SummaryRow
}

type reportService struct {
	source       DatasetSource
	depreciation DepreciationService
	metrics      MetricsService
}

func NewReportService(source DatasetSource, depreciation DepreciationService, metrics MetricsService) ReportService {
	return &reportService{source: source, depreciation: depreciation, metrics: metrics}
}

// --- Implementation ---

func (s *reportService) Build(ctx context.Context, opts ReportOptions) (*Report, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	rows, err := s.metrics.Transform(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metrics: %w", err)
	}

	fact, err := s.NetProfitGrowth(rows, opts.FactScenario, opts.FactFrom, opts.FactTo)
	if err != nil {
		return nil, fmt.Errorf("failed to compute growth fact: %w", err)
	}

	from, to := depreciationSpan(ds.Transactions)
	table, err := s.depreciation.Table(ds.Assets, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build depreciation table: %w", err)
	}

	bar := chart.NewBarChart(rows)
	metric := opts.Metric
	if metric == "" {
		metric = model.MetricRevenue
	}
	if err := bar.Select(metric); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now(),
		Source:       fmt.Sprint(s.source),
		Dataset:      ds,
		Metrics:      rows,
		Fact:         fact,
		Summary:      s.Summary(rows),
		Depreciation: table,
		Bar:          bar,
		Pie:          chart.NewPieChart(ds.Assets),
	}
	log.Printf("report %s built from %s: %d assets, %d transactions", report.RunID, report.Source, len(ds.Assets), len(rows))
	return report, nil
}

// NetProfitGrowth is ((net_to - net_from) / net_from) * 100 for one scenario.
func (s *reportService) NetProfitGrowth(rows []model.MetricsRow, scenario model.Scenario, fromYear, toYear int) (Fact, error) {
	start, err := FindRow(rows, fromYear, scenario)
	if err != nil {
		return Fact{}, err
	}
	end, err := FindRow(rows, toYear, scenario)
	if err != nil {
		return Fact{}, err
	}
	if start.NetProfit.IsZero() {
		return Fact{}, fmt.Errorf("%w: %d %q", ErrZeroBase, fromYear, scenario)
	}

	change := end.NetProfit.Sub(start.NetProfit).Div(start.NetProfit).Mul(hundred)
	return Fact{
		Scenario: scenario,
		FromYear: fromYear,
		ToYear:   toYear,
		From:     start.NetProfit,
		To:       end.NetProfit,
		Change:   change,
		Percent:  change.StringFixed(2),
	}, nil
}

func (s *reportService) Summary(rows []model.MetricsRow) []SummaryRow {
	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SummaryRow{
			Year:             r.Year,
			Scenario:         r.Scenario,
			Revenue:          r.Revenue.Round(2),
			OperatingExpense: r.OperatingExpense.Round(2),
			Depreciation:     r.Depreciation.Round(2),
			PreTaxProfit:     r.PreTaxProfit.Round(2),
			Tax:              r.Tax.Round(2),
			NetProfit:        r.NetProfit.Round(2),
		})
	}
	return out
}

// --- Rendering ---

// WriteSummary prints the summary as an aligned text table.
func WriteSummary(w io.Writer, rows []SummaryRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(SummaryHeaders, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r.Cells(), "\t")+"\t")
	}
	return tw.Flush()
}

// Markdown renders the fact, the summary and the depreciation schedule.
func Markdown(r *Report) string {
	var b strings.Builder
	b.WriteString("# Financial Report\n\n")
	fmt.Fprintf(&b, "**Interesting Fact:** %s\n\n", r.Fact.Sentence())

	b.WriteString("## Summary Table (in Million IDR)\n\n")
	writeMarkdownRow(&b, SummaryHeaders)
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range r.Summary {
		writeMarkdownRow(&b, row.Cells())
	}

	b.WriteString("\n## Depreciation Schedule (Million IDR)\n\n")
	header := []string{"Asset", "Category", "Method"}
	for y := r.Depreciation.From; y <= r.Depreciation.To; y++ {
		header = append(header, strconv.Itoa(y))
	}
	writeMarkdownRow(&b, header)
	b.WriteString("|---|---|---|" + strings.Repeat("---:|", len(header)-3) + "\n")
	for _, a := range r.Depreciation.Assets {
		cells := []string{a.AssetID, a.Category, a.Method.Label()}
		for _, ya := range a.Amounts {
			cells = append(cells, ya.Amount.Div(million).StringFixed(2))
		}
		writeMarkdownRow(&b, cells)
	}
	totals := []string{"**Total**", "", ""}
	for _, ya := range r.Depreciation.Totals {
		totals = append(totals, "**"+ya.Amount.Div(million).StringFixed(2)+"**")
	}
	writeMarkdownRow(&b, totals)

	fmt.Fprintf(&b, "\n_Run %s, generated %s from %s._\n", r.RunID, r.GeneratedAt.Format(time.RFC3339), r.Source)
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Financial Report</title>
<style>
body { background: {{.Theme.Background}}; color: {{.Theme.Text}}; font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid {{.Theme.Border}}; padding: 4px 10px; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts the report markdown to a themed HTML page.
func RenderHTML(w io.Writer, r *Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return reportPage.Execute(w, struct {
		Theme chart.Theme
		Body  template.HTML
	}{
		Theme: chart.DefaultTheme,
		Body:  template.HTML(body.String()),
	})
}

// --- Helpers ---

// depreciationSpan covers the transaction years, starting no earlier than the base year.
func depreciationSpan(txs []model.Transaction) (int, int) {
	from, to := model.BaseYear, model.BaseYear
	for i, t := range txs {
		if i == 0 || t.Year < from {
			from = t.Year
		}
		if t.Year > to {
			to = t.Year
		}
	}
	if from < model.BaseYear {
		from = model.BaseYear
	}
	return from, to
}
