package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/service"
)

// @Summary Revenue breakdown as CSV
// @Tags reports
// @Produce text/csv
// @Router /api/reports/revenue/csv [get]
func (h *Handler) RevenueCSV(c *gin.Context) {
	rows, err := h.Upstream.RevenueByService(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream fetch failed", err.Error())
		return
	}
	out, err := service.RevenueCSV(service.NormalizeRevenue(rows))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "csv generation failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="revenue_by_service.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

// ServiceReportCSV re-serves the upstream report feed as a download.
func (h *Handler) ServiceReportCSV(c *gin.Context) {
	out, err := h.Upstream.ServiceReportCSV(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream fetch failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="service_report.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

// @Summary Invoice list as CSV
// @Tags reports
// @Produce text/csv
// @Router /api/reports/invoices/csv [get]
func (h *Handler) InvoicesCSV(c *gin.Context) {
	invoices, ok := h.fetchInvoices(c)
	if !ok {
		return
	}
	out, err := service.InvoicesCSV(invoices)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "csv generation failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

// @Summary Invoice list as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/reports/invoices/xlsx [get]
func (h *Handler) InvoicesXLSX(c *gin.Context) {
	invoices, ok := h.fetchInvoices(c)
	if !ok {
		return
	}
	out, err := service.InvoicesXLSX(invoices)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "spreadsheet generation failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

// @Summary Financial report as PDF
// @Description Revenue breakdown with collected and pending totals on the company letterhead.
// @Tags reports
// @Produce application/pdf
// @Router /api/reports/financial/pdf [get]
func (h *Handler) FinancialPDF(c *gin.Context) {
	rows, err := h.Upstream.RevenueByService(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream fetch failed", err.Error())
		return
	}
	invoices, ok := h.fetchInvoices(c)
	if !ok {
		return
	}
	paid, pending := service.RevenueSummary(invoices)

	out, err := service.FinancialReportPDF(service.NormalizeRevenue(rows), paid, pending, service.DefaultLetterhead())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "pdf generation failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="financial_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}
