package service

import (
	"sort"
	"strings"

	"github.com/kushiservices/admin-backend/internal/models"
)

// BuildInvoices derives the invoice view from bookings, newest first.
func BuildInvoices(bookings []models.Booking) []models.Invoice {
	out := make([]models.Invoice, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, InvoiceFor(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].BookingID > out[j].BookingID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// InvoiceFor projects one booking into its invoice row.
func InvoiceFor(b models.Booking) models.Invoice {
	return models.Invoice{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		ServiceName:   b.ServiceName,
		Date:          b.Date,
		BaseAmount:    b.BaseAmount,
		Discount:      b.Discount,
		Amount:        b.TotalAmount,
		PaymentMethod: b.PaymentMethod,
		PaymentStatus: ResolvePaymentStatus(b),
		BookingStatus: b.Status,
	}
}

// ResolvePaymentStatus prefers the explicit payment status. Older
// records carry none; for those the legacy heuristic applies: a booking
// with assigned workers is treated as paid. Compatibility shim, drop it
// once the backend backfills payment_status.
func ResolvePaymentStatus(b models.Booking) string {
	switch b.PaymentStatus {
	case models.PaymentPaid, models.PaymentUnpaid:
		return b.PaymentStatus
	}
	if len(b.Workers) > 0 {
		return models.PaymentPaid
	}
	return models.PaymentUnpaid
}

// RevenueSummary totals the paid and pending amounts across invoices.
func RevenueSummary(invoices []models.Invoice) (paid, pending float64) {
	for _, inv := range invoices {
		if inv.PaymentStatus == models.PaymentPaid {
			paid += inv.Amount
		} else {
			pending += inv.Amount
		}
	}
	return paid, pending
}

// FilterByPaymentMethod keeps invoices with the given method. Empty or
// "all" keeps everything; matching is case-insensitive.
func FilterByPaymentMethod(invoices []models.Invoice, method string) []models.Invoice {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" || method == "all" {
		return invoices
	}
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if strings.ToLower(inv.PaymentMethod) == method {
			out = append(out, inv)
		}
	}
	return out
}

// FilterByPaymentStatus keeps invoices with the given resolved status.
func FilterByPaymentStatus(invoices []models.Invoice, status string) []models.Invoice {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return invoices
	}
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.PaymentStatus == status {
			out = append(out, inv)
		}
	}
	return out
}
