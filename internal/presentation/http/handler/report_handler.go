package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves weekly financial reports
type ReportHandler struct {
	reportService *service.ReportService
	weekService   *service.WeekService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, weekService *service.WeekService) *ReportHandler {
	return &ReportHandler{reportService: reportService, weekService: weekService}
}

func (h *ReportHandler) week(c *gin.Context) (*service.WeekContext, bool) {
	var query request.WeekQuery
	if !bindQuery(c, &query) {
		return nil, false
	}
	return resolveWeek(c, h.weekService, query.Week)
}

// FinancialSummary returns the profit and loss statement of a week
func (h *ReportHandler) FinancialSummary(c *gin.Context) {
	wc, ok := h.week(c)
	if !ok {
		return
	}

	summary, err := h.reportService.FinancialSummary(c.Request.Context(), wc)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial summary retrieved successfully", summary)
}

// EmployeePerformance returns per-employee figures of a week
func (h *ReportHandler) EmployeePerformance(c *gin.Context) {
	wc, ok := h.week(c)
	if !ok {
		return
	}

	rows, err := h.reportService.EmployeePerformance(c.Request.Context(), wc)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee performance retrieved successfully", rows)
}

// Export downloads the week as an XLSX workbook
func (h *ReportHandler) Export(c *gin.Context) {
	wc, ok := h.week(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportWeek(c.Request.Context(), wc, &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("week-%d.xlsx", wc.WeekID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Ledgers lists every week with its opening and closing balance
func (h *ReportHandler) Ledgers(c *gin.Context) {
	ledgers, err := h.weekService.ListLedgers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Week ledgers retrieved successfully", ledgers)
}
