package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	chartWidth  = "960px"
	chartHeight = "520px"
)

// EChartsBar converts the model; series visibility becomes the legend selection.
func EChartsBar(c *BarChart) *charts.Bar {
	selected := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		selected[s.Name] = s.Visible
	}
	textStyle := &opts.TextStyle{Color: c.Theme.Text}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       c.Title,
			Width:           chartWidth,
			Height:          chartHeight,
			BackgroundColor: c.Theme.Background,
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title, TitleStyle: textStyle}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			Selected:  selected,
			TextStyle: textStyle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YTitle}),
	)

	years := make([]string, len(c.Years))
	for i, y := range c.Years {
		years[i] = strconv.Itoa(y)
	}
	bar.SetXAxis(years)

	for _, s := range c.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			if v == nil {
				// echarts draws "-" as a gap
				data[i] = opts.BarData{Value: "-"}
				continue
			}
			data[i] = opts.BarData{Value: *v}
		}
		bar.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	bar.AddJSFuncStrs(metricSelector(c))
	return bar
}

// metricSelectorJS inserts a <select> above the bar chart. Picking a metric
// shows exactly that metric's scenario series and retitles the chart.
// Newlines are stripped by go-echarts, so every statement ends in ';'.
const metricSelectorJS = `(function () {
	var chart = %%MY_ECHARTS%%;
	var options = %s;
	var selected = %s;
	var dom = chart.getDom();
	var select = document.createElement("select");
	select.id = "metric-select";
	select.style.color = %s;
	select.style.border = "1px solid " + %s;
	select.style.margin = "8px 0";
	options.forEach(function (o) {
		var opt = document.createElement("option");
		opt.value = o.metric;
		opt.textContent = o.label;
		opt.selected = o.metric === selected;
		select.appendChild(opt);
	});
	select.addEventListener("change", function () {
		options.forEach(function (o) {
			var action = o.metric === select.value ? "legendSelect" : "legendUnSelect";
			o.series.forEach(function (name) {
				chart.dispatchAction({ type: action, name: name });
			});
			if (o.metric === select.value) {
				chart.setOption({ title: { text: o.title } });
			}
		});
	});
	dom.parentNode.insertBefore(select, dom);
})();`

func metricSelector(c *BarChart) types.FuncStr {
	return types.FuncStr(fmt.Sprintf(metricSelectorJS,
		jsValue(c.MetricOptions()),
		jsValue(c.Selected),
		jsValue(c.Theme.Text),
		jsValue(c.Theme.Border),
	))
}

// jsValue encodes v as a JavaScript literal. json.Marshal escapes <, > and &,
// so the result is safe inside a <script> element.
func jsValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func EChartsPie(p *PieChart) *charts.Pie {
	textStyle := &opts.TextStyle{Color: p.Theme.Text}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       p.Title,
			Width:           chartWidth,
			Height:          chartHeight,
			BackgroundColor: p.Theme.Background,
		}),
		charts.WithTitleOpts(opts.Title{Title: p.Title, TitleStyle: textStyle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom", TextStyle: textStyle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, 0, len(p.Slices))
	for _, s := range p.Slices {
		data = append(data, opts.PieData{
			Name:      s.Category,
			Value:     s.Value.InexactFloat64(),
			ItemStyle: &opts.ItemStyle{Color: s.Color},
		})
	}
	pie.AddSeries("Acquisition value", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// Render writes one HTML page holding both charts.
func Render(w io.Writer, bar *BarChart, pie *PieChart) error {
	page := components.NewPage()
	page.AddCharts(EChartsBar(bar), EChartsPie(pie))
	return page.Render(w)
}
