package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kushiservices/admin-backend/internal/models"
)

func sampleInvoices() []models.Invoice {
	return []models.Invoice{
		{BookingID: 101, CustomerName: "Rajesh Kumar", ServiceName: "Deep Cleaning", Date: day("2025-06-10"), BaseAmount: 2500, Discount: 200, Amount: 2300, PaymentStatus: "paid", BookingStatus: "confirmed"},
		{BookingID: 102, CustomerName: "Priya Sharma", ServiceName: "Sofa Shampooing", BaseAmount: 800, Amount: 800, PaymentStatus: "unpaid", BookingStatus: "pending"},
	}
}

func TestRevenueCSV(t *testing.T) {
	out, err := RevenueCSV([]models.ServiceRevenue{
		{Service: "Deep Cleaning", Revenue: 4500, Percentage: 84.91},
		{Service: "Sofa Shampooing", Revenue: 800, Percentage: 15.09},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[0] != "Service,Revenue,Percentage" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Deep Cleaning,4500.00,84.91" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestInvoicesCSV(t *testing.T) {
	out, err := InvoicesCSV(sampleInvoices())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, "#101") || !strings.Contains(s, "Rajesh Kumar") {
		t.Errorf("csv missing invoice row: %s", s)
	}
	if !strings.Contains(s, "N/A") {
		t.Error("invoice without a date should render N/A")
	}
}

func TestInvoicesXLSX(t *testing.T) {
	out, err := InvoicesXLSX(sampleInvoices())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Invoices", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Rajesh Kumar" {
		t.Errorf("B2 = %q", got)
	}
}

func TestInvoicePDF(t *testing.T) {
	out, err := InvoicePDF(sampleInvoices()[0], DefaultLetterhead())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestFinancialReportPDF(t *testing.T) {
	rows := []models.ServiceRevenue{{Service: "Deep Cleaning", Revenue: 4500, Percentage: 100}}
	out, err := FinancialReportPDF(rows, 2300, 800, DefaultLetterhead())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
