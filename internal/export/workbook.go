// Package export writes the summary and depreciation tables to a themed
// spreadsheet.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"finreport/internal/chart"
	"finreport/internal/service"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet      = "Summary"
	DepreciationSheet = "Depreciation"

	fmtTwoDecimals = 2 // builtin "0.00"
)

type styles struct {
	header int
	text   int
	number int
	note   int
}

func newStyles(f *excelize.File, theme chart.Theme) (styles, error) {
	color := strings.TrimPrefix(theme.Text, "#")
	border := strings.TrimPrefix(theme.Border, "#")
	fill := excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(theme.Background, "#")}, Pattern: 1}
	borders := []excelize.Border{
		{Type: "left", Color: border, Style: 1},
		{Type: "top", Color: border, Style: 1},
		{Type: "right", Color: border, Style: 1},
		{Type: "bottom", Color: border, Style: 1},
	}

	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: color},
		Fill:      fill,
		Border:    borders,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.text, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: color},
		Fill:   fill,
		Border: borders,
	}); err != nil {
		return s, err
	}
	if s.number, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: color},
		Fill:   fill,
		Border: borders,
		NumFmt: fmtTwoDecimals,
	}); err != nil {
		return s, err
	}
	if s.note, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: color},
	}); err != nil {
		return s, err
	}
	return s, nil
}

// Workbook builds the Summary and Depreciation sheets of a report.
func Workbook(r *service.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(DepreciationSheet); err != nil {
		return nil, err
	}

	st, err := newStyles(f, chart.DefaultTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	if err := writeSummary(f, st, r); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeDepreciation(f, st, r.Depreciation); err != nil {
		return nil, fmt.Errorf("failed to write depreciation sheet: %w", err)
	}
	return f, nil
}

func writeSummary(f *excelize.File, st styles, r *service.Report) error {
	if err := f.SetSheetRow(SummarySheet, "A1", &service.SummaryHeaders); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(service.SummaryHeaders), 1)
	if err := f.SetCellStyle(SummarySheet, "A1", last, st.header); err != nil {
		return err
	}

	for i, row := range r.Summary {
		line := i + 2
		values := []interface{}{
			row.Year,
			string(row.Scenario),
			row.Revenue.InexactFloat64(),
			row.OperatingExpense.InexactFloat64(),
			row.Depreciation.InexactFloat64(),
			row.PreTaxProfit.InexactFloat64(),
			row.Tax.InexactFloat64(),
			row.NetProfit.InexactFloat64(),
		}
		start := "A" + strconv.Itoa(line)
		if err := f.SetSheetRow(SummarySheet, start, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, start, "B"+strconv.Itoa(line), st.text); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(len(values), line)
		if err := f.SetCellStyle(SummarySheet, "C"+strconv.Itoa(line), end, st.number); err != nil {
			return err
		}
	}

	note := "A" + strconv.Itoa(len(r.Summary)+3)
	if err := f.SetCellValue(SummarySheet, note, "Interesting Fact: "+r.Fact.Sentence()); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, note, note, st.note); err != nil {
		return err
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 32); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "C", "H", 18)
}

func writeDepreciation(f *excelize.File, st styles, table service.DepreciationTable) error {
	header := []interface{}{"Asset", "Category", "Method"}
	for y := table.From; y <= table.To; y++ {
		header = append(header, y)
	}
	if err := f.SetSheetRow(DepreciationSheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(DepreciationSheet, "A1", last, st.header); err != nil {
		return err
	}

	line := 2
	for _, a := range table.Assets {
		values := []interface{}{a.AssetID, a.Category, a.Method.Label()}
		for _, ya := range a.Amounts {
			values = append(values, ya.Amount.InexactFloat64())
		}
		if err := writeStyledRow(f, st, line, values); err != nil {
			return err
		}
		line++
	}

	totals := []interface{}{"Total", "", ""}
	for _, ya := range table.Totals {
		totals = append(totals, ya.Amount.InexactFloat64())
	}
	if err := writeStyledRow(f, st, line, totals); err != nil {
		return err
	}
	return f.SetColWidth(DepreciationSheet, "A", "C", 18)
}

func writeStyledRow(f *excelize.File, st styles, line int, values []interface{}) error {
	start := "A" + strconv.Itoa(line)
	if err := f.SetSheetRow(DepreciationSheet, start, &values); err != nil {
		return err
	}
	if err := f.SetCellStyle(DepreciationSheet, start, "C"+strconv.Itoa(line), st.text); err != nil {
		return err
	}
	if len(values) <= 3 {
		return nil
	}
	end, _ := excelize.CoordinatesToCellName(len(values), line)
	return f.SetCellStyle(DepreciationSheet, "D"+strconv.Itoa(line), end, st.number)
}
