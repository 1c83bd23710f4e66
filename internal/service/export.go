package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/kushiservices/admin-backend/internal/models"
)

// Letterhead is the company block printed on every generated document.
type Letterhead struct {
	Company      string
	AddressLine1 string
	AddressLine2 string
	ContactLine  string
	FooterNote   string
}

// DefaultLetterhead matches the stationery the office prints on.
func DefaultLetterhead() Letterhead {
	return Letterhead{
		Company:      "KUSHI CLEANING SERVICES",
		AddressLine1: "No 115, GVR Complex, Thambu Chetty Palya Main Rd, Opp. Axis Bank ATM,",
		AddressLine2: "P and T Layout, Anandapura, Battarahalli, Bengaluru, Karnataka 560049",
		ContactLine:  "Email: info@kushiservices.in | Phone: +91 9606999081/82/83/84/85",
		FooterNote:   "Excellence Guaranteed | (c) 2025 Kushi Cleaning Services. All rights reserved.",
	}
}

// RevenueCSV renders the revenue-by-service breakdown as CSV.
func RevenueCSV(rows []models.ServiceRevenue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Service", "Revenue", "Percentage"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.Service,
			strconv.FormatFloat(r.Revenue, 'f', 2, 64),
			strconv.FormatFloat(r.Percentage, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// InvoicesCSV renders the invoice list as CSV, one row per invoice.
func InvoicesCSV(invoices []models.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Invoice", "Customer", "Service", "Date", "Amount", "Payment Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		record := []string{
			fmt.Sprintf("#%d", inv.BookingID),
			inv.CustomerName,
			inv.ServiceName,
			exportDate(inv.Date),
			strconv.FormatFloat(inv.Amount, 'f', 2, 64),
			inv.PaymentStatus,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// InvoicesXLSX renders the invoice list as a spreadsheet with a summary
// row of paid and pending totals at the bottom.
func InvoicesXLSX(invoices []models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice", "Customer", "Email", "Service", "Date", "Base Amount", "Discount", "Total", "Payment Status", "Booking Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, inv := range invoices {
		values := []any{
			fmt.Sprintf("#%d", inv.BookingID),
			inv.CustomerName,
			inv.CustomerEmail,
			inv.ServiceName,
			exportDate(inv.Date),
			inv.BaseAmount,
			inv.Discount,
			inv.Amount,
			inv.PaymentStatus,
			inv.BookingStatus,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	paid, pending := RevenueSummary(invoices)
	summaryRow := len(invoices) + 3
	for col, v := range []any{"Totals", "", "", "", "", "", "", paid + pending, fmt.Sprintf("paid %.2f / pending %.2f", paid, pending)} {
		cell, err := excelize.CoordinatesToCellName(col+1, summaryRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InvoicePDF renders one invoice on the company letterhead.
func InvoicePDF(inv models.Invoice, lh Letterhead) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	const margin = 40.0

	writeLetterhead(pdf, lh, pageW, margin)

	y := margin + 90
	pdf.SetFont("Times", "B", 14)
	pdf.Text(margin, y, "Customer Details")
	pdf.SetFont("Times", "", 11)
	pdf.Text(pageW-margin-160, y, fmt.Sprintf("Invoice ID: #%d", inv.BookingID))
	pdf.Text(pageW-margin-160, y+14, "Date: "+exportDate(inv.Date))

	y += 30
	pdf.SetXY(margin, y)
	pdf.SetFont("Times", "", 11)
	pdf.CellFormat(0, 14, fmt.Sprintf("%s | %s", inv.CustomerName, inv.CustomerEmail), "", 1, "L", false, 0, "")

	y += 40
	pdf.SetFont("Times", "B", 14)
	pdf.Text(margin, y, "Service & Financial Details")
	y += 12

	cols := []float64{170, 90, 90, 90, 90}
	heads := []string{"Service", "Base (INR)", "Discount (INR)", "Total (INR)", "Status"}
	pdf.SetXY(margin, y)
	pdf.SetFont("Times", "B", 11)
	for i, h := range heads {
		pdf.CellFormat(cols[i], 18, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetX(margin)
	pdf.SetFont("Times", "", 11)
	cells := []string{
		inv.ServiceName,
		fmt.Sprintf("%.2f", inv.BaseAmount),
		fmt.Sprintf("%.2f", inv.Discount),
		fmt.Sprintf("%.2f", inv.Amount),
		strings.ToUpper(inv.PaymentStatus),
	}
	for i, c := range cells {
		pdf.CellFormat(cols[i], 18, c, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	y = pdf.GetY() + 30
	pdf.SetFont("Times", "B", 16)
	pdf.Text(pageW-margin-180, y, fmt.Sprintf("Final Total: INR %.2f", inv.Amount))
	pdf.SetFont("Times", "", 12)
	pdf.Text(margin, y, "Payment Status: "+strings.ToUpper(inv.PaymentStatus))
	pdf.Text(margin, y+24, "Booking Status: "+strings.ToUpper(inv.BookingStatus))

	writeFooter(pdf, lh, pageW, pageH, margin)
	return pdfBytes(pdf)
}

// FinancialReportPDF renders the revenue breakdown with the paid and
// pending totals on the letterhead.
func FinancialReportPDF(rows []models.ServiceRevenue, paid, pending float64, lh Letterhead) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	const margin = 40.0

	writeLetterhead(pdf, lh, pageW, margin)

	y := margin + 90
	pdf.SetFont("Times", "B", 14)
	pdf.Text(margin, y, "Financial Report")
	pdf.SetFont("Times", "", 11)
	pdf.Text(pageW-margin-160, y, "Generated: "+time.Now().UTC().Format("Jan 2, 2006"))

	y += 24
	pdf.SetFont("Times", "", 12)
	pdf.Text(margin, y, fmt.Sprintf("Revenue collected: INR %.2f", paid))
	pdf.Text(margin, y+16, fmt.Sprintf("Revenue pending: INR %.2f", pending))
	pdf.Text(margin, y+32, fmt.Sprintf("Total billed: INR %.2f", paid+pending))

	y += 56
	pdf.SetXY(margin, y)
	pdf.SetFont("Times", "B", 11)
	cols := []float64{250, 130, 130}
	for i, h := range []string{"Service", "Revenue (INR)", "Share (%)"} {
		pdf.CellFormat(cols[i], 18, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Times", "", 11)
	for _, r := range rows {
		pdf.SetX(margin)
		pdf.CellFormat(cols[0], 18, r.Service, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 18, fmt.Sprintf("%.2f", r.Revenue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 18, fmt.Sprintf("%.2f", r.Percentage), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	writeFooter(pdf, lh, pageW, pageH, margin)
	return pdfBytes(pdf)
}

func writeLetterhead(pdf *gofpdf.Fpdf, lh Letterhead, pageW, margin float64) {
	pdf.SetFont("Times", "B", 18)
	pdf.SetXY(margin, margin-10)
	pdf.CellFormat(pageW-2*margin, 20, lh.Company, "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 11)
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, 14, lh.AddressLine1, "", 1, "C", false, 0, "")
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, 14, lh.AddressLine2, "", 1, "C", false, 0, "")
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, 14, lh.ContactLine, "", 1, "C", false, 0, "")
	pdf.SetLineWidth(0.7)
	pdf.Line(margin, margin+60, pageW-margin, margin+60)
}

func writeFooter(pdf *gofpdf.Fpdf, lh Letterhead, pageW, pageH, margin float64) {
	footerY := pageH - 60
	pdf.SetFont("Times", "", 11)
	pdf.Text(margin, footerY, "Declaration: This is a computer-generated document.")
	pdf.Text(margin, footerY+14, "All details are true and correct.")
	pdf.SetFont("Times", "B", 11)
	pdf.Text(pageW-margin-200, footerY, "For "+lh.Company)
	pdf.SetFont("Times", "", 11)
	pdf.Text(pageW-margin-150, footerY+20, "Authorised Signatory")
	pdf.SetFont("Times", "", 10)
	pdf.SetXY(margin, pageH-30)
	pdf.CellFormat(pageW-2*margin, 12, lh.FooterNote, "", 0, "C", false, 0, "")
}

func pdfBytes(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}
