package handler

import (
	"net/http"

	"finreport/internal/chart"
	"finreport/internal/model"
	"finreport/internal/service"
	"finreport/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChartHandler struct {
	reports  service.ReportService
	defaults service.ReportOptions
}

func NewChartHandler(reports service.ReportService, defaults service.ReportOptions) *ChartHandler {
	return &ChartHandler{reports: reports, defaults: defaults}
}

func (h *ChartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/charts", h.GetChartsPage)
	charts := router.Group("/api/charts")
	{
		charts.GET("/bar", h.GetBarChart)
		charts.GET("/pie", h.GetPieChart)
	}
}

// GetChartsPage renders both charts; ?metric= picks the visible bar series
func (h *ChartHandler) GetChartsPage(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := chart.Render(c.Writer, report.Bar, report.Pie); err != nil {
		_ = c.Error(err)
	}
}

// GetBarChart returns the bar chart model with the selected metric visible
func (h *ChartHandler) GetBarChart(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.SuccessForRun(http.StatusOK, report.RunID, report.Bar))
}

// GetPieChart returns asset distribution by category
func (h *ChartHandler) GetPieChart(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.SuccessForRun(http.StatusOK, report.RunID, report.Pie))
}

func (h *ChartHandler) build(c *gin.Context) (*service.Report, bool) {
	opts := h.defaults
	if raw := c.Query("metric"); raw != "" {
		metric, err := model.ParseMetric(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return nil, false
		}
		opts.Metric = metric
	}
	report, err := h.reports.Build(c.Request.Context(), opts)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return nil, false
	}
	return report, true
}
