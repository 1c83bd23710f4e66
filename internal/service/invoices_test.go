package service

import (
	"testing"

	"github.com/kushiservices/admin-backend/internal/models"
)

func TestResolvePaymentStatus(t *testing.T) {
	cases := []struct {
		name string
		b    models.Booking
		want string
	}{
		{"explicit paid", models.Booking{PaymentStatus: "paid"}, "paid"},
		{"explicit unpaid", models.Booking{PaymentStatus: "unpaid", Workers: []string{"Ravi"}}, "unpaid"},
		{"legacy with workers", models.Booking{Workers: []string{"Ravi"}}, "paid"},
		{"legacy without workers", models.Booking{}, "unpaid"},
		{"unknown value falls back", models.Booking{PaymentStatus: "maybe"}, "unpaid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolvePaymentStatus(tc.b); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildInvoicesNewestFirst(t *testing.T) {
	invoices := BuildInvoices([]models.Booking{
		{ID: 1, Date: day("2025-06-01"), BaseAmount: 100, TotalAmount: 100},
		{ID: 2, Date: day("2025-06-05"), BaseAmount: 200, TotalAmount: 200},
		{ID: 3, Date: day("2025-06-05"), BaseAmount: 300, TotalAmount: 300},
	})
	if invoices[0].BookingID != 3 || invoices[1].BookingID != 2 || invoices[2].BookingID != 1 {
		t.Errorf("order = %d,%d,%d", invoices[0].BookingID, invoices[1].BookingID, invoices[2].BookingID)
	}
}

func TestRevenueSummary(t *testing.T) {
	invoices := []models.Invoice{
		{Amount: 100, PaymentStatus: "paid"},
		{Amount: 250, PaymentStatus: "unpaid"},
		{Amount: 50, PaymentStatus: "paid"},
	}
	paid, pending := RevenueSummary(invoices)
	if paid != 150 || pending != 250 {
		t.Errorf("paid=%v pending=%v", paid, pending)
	}
}

func TestFilterByPaymentMethod(t *testing.T) {
	invoices := []models.Invoice{
		{BookingID: 1, PaymentMethod: "UPI"},
		{BookingID: 2, PaymentMethod: "Cash"},
	}
	got := FilterByPaymentMethod(invoices, "upi")
	if len(got) != 1 || got[0].BookingID != 1 {
		t.Errorf("got %v", got)
	}
	if got := FilterByPaymentMethod(invoices, "all"); len(got) != 2 {
		t.Errorf("all should pass everything, got %d", len(got))
	}
}
