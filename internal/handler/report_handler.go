package handler

import (
	"errors"
	"net/http"
	"strconv"

	"finreport/internal/export"
	"finreport/internal/model"
	"finreport/internal/service"
	"finreport/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	source       service.DatasetSource
	depreciation service.DepreciationService
	metrics      service.MetricsService
	reports      service.ReportService
	defaults     service.ReportOptions
}

func NewReportHandler(source service.DatasetSource, depreciation service.DepreciationService, metrics service.MetricsService, reports service.ReportService, defaults service.ReportOptions) *ReportHandler {
	return &ReportHandler{
		source:       source,
		depreciation: depreciation,
		metrics:      metrics,
		reports:      reports,
		defaults:     defaults,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/assets", h.GetAssets)
		api.GET("/fiscal-policies", h.GetFiscalPolicies)
		api.GET("/fiscal-policies/:year", h.GetFiscalPolicy)
		api.GET("/transactions", h.GetTransactions)
		api.GET("/metrics", h.GetMetrics)
		api.GET("/depreciation", h.GetDepreciation)
		api.GET("/fact", h.GetFact)
		api.GET("/summary", h.GetSummary)
		api.GET("/summary.xlsx", h.DownloadSummary)
	}
	router.GET("/report", h.GetReportPage)
}

// GetAssets returns the fixed asset register
func (h *ReportHandler) GetAssets(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ds.Assets))
}

// GetFiscalPolicies returns tax rates and holiday windows per year
func (h *ReportHandler) GetFiscalPolicies(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ds.FiscalPolicies))
}

// GetFiscalPolicy returns the policy of a single year
func (h *ReportHandler) GetFiscalPolicy(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid year"))
		return
	}
	ds, ok := h.load(c)
	if !ok {
		return
	}
	policy, err := model.IndexPolicies(ds.FiscalPolicies).Lookup(year)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, policy))
}

// GetTransactions returns the raw yearly transactions (IDR)
func (h *ReportHandler) GetTransactions(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ds.Transactions))
}

// GetMetrics returns derived profit and tax per transaction, in millions
func (h *ReportHandler) GetMetrics(c *gin.Context) {
	rows, ok := h.derive(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetDepreciation returns per-asset schedules and yearly totals
// @Param from query int false "First year (default 2023)"
// @Param to   query int false "Last year (default from + 4)"
func (h *ReportHandler) GetDepreciation(c *gin.Context) {
	from, err := intQuery(c, "from", model.BaseYear)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	to, err := intQuery(c, "to", from+4)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	ds, ok := h.load(c)
	if !ok {
		return
	}
	table, err := h.depreciation.Table(ds.Assets, from, to)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, table))
}

// GetFact returns the net profit growth between two years of a scenario
// @Param scenario query string false "Scenario (default Normal)"
// @Param from     query int    false "Base year"
// @Param to       query int    false "Comparison year"
func (h *ReportHandler) GetFact(c *gin.Context) {
	scenario := h.defaults.FactScenario
	if raw := c.Query("scenario"); raw != "" {
		parsed, err := model.ParseScenario(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		scenario = parsed
	}
	from, err := intQuery(c, "from", h.defaults.FactFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	to, err := intQuery(c, "to", h.defaults.FactTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rows, ok := h.derive(c)
	if !ok {
		return
	}
	fact, err := h.reports.NetProfitGrowth(rows, scenario, from, to)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"fact":     fact,
		"sentence": fact.Sentence(),
	}))
}

// GetSummary returns the summary table rounded to 2 decimals
func (h *ReportHandler) GetSummary(c *gin.Context) {
	report, ok := h.build(c, h.defaults)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.SuccessForRun(http.StatusOK, report.RunID, gin.H{
		"fact":    report.Fact.Sentence(),
		"summary": report.Summary,
	}))
}

// DownloadSummary streams the themed spreadsheet
func (h *ReportHandler) DownloadSummary(c *gin.Context) {
	report, ok := h.build(c, h.defaults)
	if !ok {
		return
	}
	f, err := export.Workbook(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="summary-`+report.RunID+`.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// GetReportPage renders the fact, summary and depreciation schedule as HTML
func (h *ReportHandler) GetReportPage(c *gin.Context) {
	report, ok := h.build(c, h.defaults)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := service.RenderHTML(c.Writer, report); err != nil {
		_ = c.Error(err)
	}
}

// --- Helpers ---

func (h *ReportHandler) load(c *gin.Context) (model.Dataset, bool) {
	ds, err := h.source.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load dataset: "+err.Error()))
		return model.Dataset{}, false
	}
	return ds, true
}

func (h *ReportHandler) derive(c *gin.Context) ([]model.MetricsRow, bool) {
	ds, ok := h.load(c)
	if !ok {
		return nil, false
	}
	rows, err := h.metrics.Transform(ds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return nil, false
	}
	return rows, true
}

func (h *ReportHandler) build(c *gin.Context, opts service.ReportOptions) (*service.Report, bool) {
	report, err := h.reports.Build(c.Request.Context(), opts)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return nil, false
	}
	return report, true
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + ": expected a year")
	}
	return n, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnknownMetric),
		errors.Is(err, model.ErrUnknownScenario),
		errors.Is(err, service.ErrYearBeforeBase),
		errors.Is(err, service.ErrInvalidYearRange),
		errors.Is(err, service.ErrZeroBase):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
