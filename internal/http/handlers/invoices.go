package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/service"
)

// @Summary List invoices
// @Description Invoice view over the booking data, with filters, pagination, and paid/pending revenue totals.
// @Tags invoices
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/invoices [get]
func (h *Handler) InvoicesList(c *gin.Context) {
	invoices, ok := h.fetchInvoices(c)
	if !ok {
		return
	}
	paid, pending := service.RevenueSummary(invoices)
	page := service.Paginate(invoices, queryPage(c), h.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"items":           page.Items,
		"page":            page.Number,
		"page_size":       page.Size,
		"total":           page.TotalItems,
		"total_pages":     page.TotalPages,
		"revenue_paid":    paid,
		"revenue_pending": pending,
	})
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=paid unpaid"`
}

// @Summary Set invoice payment status
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "booking id"
// @Param body body paymentStatusRequest true "payment status"
// @Success 200 {object} map[string]any
// @Router /api/invoices/{id}/payment-status [put]
func (h *Handler) InvoicePaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}
	if err := h.Upstream.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus); err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "payment status update failed", err.Error())
		return
	}
	if b, found := h.Bookings.Get(id); found {
		b.PaymentStatus = req.PaymentStatus
		h.Bookings.Update(b)
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": id, "payment_status": req.PaymentStatus})
}

// @Summary Download one invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path int true "booking id"
// @Router /api/invoices/{id}/pdf [get]
func (h *Handler) InvoicePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	invoices, found := h.fetchInvoices(c)
	if !found {
		return
	}
	for _, inv := range invoices {
		if inv.BookingID == id {
			pdf, err := service.InvoicePDF(inv, service.DefaultLetterhead())
			if err != nil {
				writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "pdf generation failed", err.Error())
				return
			}
			c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%d.pdf"`, id))
			c.Data(http.StatusOK, "application/pdf", pdf)
			return
		}
	}
	writeError(c, http.StatusNotFound, "NOT_FOUND", "invoice not found", nil)
}

// fetchInvoices pulls the invoice source set and applies the query
// filters: the shared booking criteria plus payment method and payment
// status. Writes the error response itself on failure.
func (h *Handler) fetchInvoices(c *gin.Context) ([]models.Invoice, bool) {
	raws, err := h.Upstream.ListInvoices(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch invoices", err.Error())
		return nil, false
	}
	crit, err := criteriaFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid date filter", err.Error())
		return nil, false
	}

	bookings := service.NormalizeBookings(raws)
	filtered := service.ApplyFilters(bookings, crit, timeNow()).Visible
	invoices := service.BuildInvoices(filtered)
	invoices = service.FilterByPaymentMethod(invoices, c.Query("payment_method"))
	invoices = service.FilterByPaymentStatus(invoices, c.Query("payment_status"))
	return invoices, true
}
