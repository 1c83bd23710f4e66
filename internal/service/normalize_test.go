package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/kushiservices/admin-backend/internal/upstream"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNormalizeBookingLegacyFields(t *testing.T) {
	raw := upstream.Booking{
		ID:            intPtr(7),
		CustomerName:  "  Asha Rao  ",
		Address:       "12 MG Road",
		Pincode:       "560001",
		BookingAmount: floatPtr(1000),
		Discount:      floatPtr(150),
		BookingDate:   "2025-06-10",
		BookingStatusSnake: "Confirmed",
	}

	b := NormalizeBooking(raw)

	if b.ID != 7 {
		t.Fatalf("ID = %d, want 7", b.ID)
	}
	if b.CustomerName != "Asha Rao" {
		t.Errorf("CustomerName = %q", b.CustomerName)
	}
	if b.AddressLine1 != "12 MG Road" {
		t.Errorf("AddressLine1 = %q, want legacy address honored", b.AddressLine1)
	}
	if b.Pincode != "560001" {
		t.Errorf("Pincode = %q", b.Pincode)
	}
	if b.Status != "confirmed" {
		t.Errorf("Status = %q, want lowercased confirmed", b.Status)
	}
	if b.TotalAmount != 850 {
		t.Errorf("TotalAmount = %v, want 850", b.TotalAmount)
	}
	if !b.HasDate() {
		t.Error("date should have parsed")
	}
}

func TestNormalizeBookingAmountAlternateNames(t *testing.T) {
	b := NormalizeBooking(upstream.Booking{
		BookingID:  intPtr(2),
		GrandTotal: floatPtr(1200),
	})
	if b.BaseAmount != 1200 {
		t.Errorf("BaseAmount = %v, want grand_total honored", b.BaseAmount)
	}

	b = NormalizeBooking(upstream.Booking{
		BookingID:     intPtr(2),
		BookingAmount: floatPtr(1000),
		GrandTotal:    floatPtr(999),
	})
	if b.BaseAmount != 1000 {
		t.Errorf("BaseAmount = %v, booking_amount wins when both present", b.BaseAmount)
	}
}

func TestNormalizeBookingUnparsableDate(t *testing.T) {
	b := NormalizeBooking(upstream.Booking{
		BookingID:   intPtr(3),
		BookingDate: "not-a-date",
	})
	if b.HasDate() {
		t.Error("unparsable date must stay unknown")
	}
	if b.DateRaw != "not-a-date" {
		t.Errorf("DateRaw = %q, want original value kept", b.DateRaw)
	}
}

func TestNormalizeBookingDiscountClamped(t *testing.T) {
	b := NormalizeBooking(upstream.Booking{
		BookingID:     intPtr(1),
		BookingAmount: floatPtr(500),
		Discount:      floatPtr(900),
	})
	if b.Discount != 500 {
		t.Errorf("Discount = %v, want clamped to base", b.Discount)
	}
	if b.TotalAmount != 0 {
		t.Errorf("TotalAmount = %v, want 0", b.TotalAmount)
	}
}

func TestParseWorkers(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"list", `["Ravi","Meena"]`, []string{"Ravi", "Meena"}},
		{"comma string", `"Ravi, Meena , "`, []string{"Ravi", "Meena"}},
		{"empty string", `""`, []string{}},
		{"null", `null`, []string{}},
		{"list with blanks", `["", " Ravi "]`, []string{"Ravi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseWorkers(json.RawMessage(tc.raw))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseWorkers(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeBookingsSortsAndSkips(t *testing.T) {
	out := NormalizeBookings([]upstream.Booking{
		{BookingID: intPtr(5)},
		{CustomerName: "no id"},
		{BookingID: intPtr(9)},
	})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != 9 || out[1].ID != 5 {
		t.Errorf("order = %d,%d, want newest first", out[0].ID, out[1].ID)
	}
}

func TestParseDurationVariants(t *testing.T) {
	if got := parseDuration(json.RawMessage(`90`)); got != 90 {
		t.Errorf("numeric duration = %d", got)
	}
	if got := parseDuration(json.RawMessage(`"45"`)); got != 45 {
		t.Errorf("string duration = %d", got)
	}
	if got := parseDuration(nil); got != 60 {
		t.Errorf("default duration = %d, want 60", got)
	}
}
