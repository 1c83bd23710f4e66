package service

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

// dateLayouts covers the formats observed in upstream payloads. Anything
// that fails all of them is treated as "unknown", never as an error.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// NormalizeBooking maps a loosely-typed upstream record into the canonical
// shape. It never fails: every field has a default, legacy field names are
// honored, and the grand total is always re-derived from base and discount.
func NormalizeBooking(raw upstream.Booking) models.Booking {
	b := models.Booking{
		ID:            pickID(raw),
		CustomerName:  strings.TrimSpace(raw.CustomerName),
		CustomerEmail: strings.TrimSpace(raw.CustomerEmail),
		CustomerPhone: strings.TrimSpace(raw.CustomerNumber),
		ServiceName:   strings.TrimSpace(raw.ServiceName),
		AddressLine1:  firstNonEmpty(raw.AddressLine1, raw.Address),
		AddressLine2:  strings.TrimSpace(raw.AddressLine2),
		AddressLine3:  strings.TrimSpace(raw.AddressLine3),
		City:          strings.TrimSpace(raw.City),
		Pincode:       firstNonEmpty(raw.ZipCode, raw.Pincode),
		Time:          strings.TrimSpace(raw.BookingTime),
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
	}

	// booking_amount, grand_total and total_amount are alternate names
	// across backend versions; first one present wins.
	base := 0.0
	switch {
	case raw.BookingAmount != nil:
		base = *raw.BookingAmount
	case raw.GrandTotal != nil:
		base = *raw.GrandTotal
	case raw.TotalAmount != nil:
		base = *raw.TotalAmount
	}
	if base < 0 {
		base = 0
	}
	discount := 0.0
	if raw.Discount != nil {
		discount = *raw.Discount
	}
	b.BaseAmount = base
	b.Discount = ClampDiscount(discount, base)
	b.TotalAmount = models.GrandTotal(b.BaseAmount, b.Discount)

	b.DateRaw = strings.TrimSpace(raw.BookingDate)
	b.Date = parseDate(b.DateRaw)
	b.DurationMinutes = parseDuration(raw.Duration)

	b.Status = NormalizeStatus(firstNonEmpty(raw.BookingStatus, raw.BookingStatusSnake))
	b.CanceledBy = strings.ToLower(strings.TrimSpace(raw.CanceledBy))
	b.CancellationReason = strings.TrimSpace(raw.CancellationReason)
	b.InspectionStatus = NormalizeStatus(firstNonEmpty(raw.InspectionStatus, raw.InspectionStatusCamel))
	b.SiteVisit = normalizeSiteVisit(raw.SiteVisit)
	b.PaymentStatus = strings.ToLower(strings.TrimSpace(firstNonEmpty(raw.PaymentStatus, raw.PaymentStatusSnake)))

	b.Workers = ParseWorkers(raw.WorkerAssign)
	return b
}

// NormalizeBookings maps and sorts a fetched batch, newest booking first,
// skipping records without an id.
func NormalizeBookings(raws []upstream.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(raws))
	for _, raw := range raws {
		b := NormalizeBooking(raw)
		if b.ID == 0 {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// NormalizeStatus case-folds a status value, defaulting to pending.
func NormalizeStatus(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return models.StatusPending
	}
	return v
}

func normalizeSiteVisit(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return models.SiteVisitPending
	case "not completed", "not_completed", "not-completed":
		return models.SiteVisitNotCompleted
	default:
		return v
	}
}

// ClampDiscount keeps a discount inside [0, baseAmount]; out-of-range
// values are clamped, not rejected.
func ClampDiscount(discount, baseAmount float64) float64 {
	if discount < 0 {
		return 0
	}
	if discount > baseAmount {
		return baseAmount
	}
	return discount
}

// ParseWorkers accepts the worker list either as a JSON array of names or
// as one comma-joined string, trimming each element and dropping empties.
func ParseWorkers(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanWorkerList(list)
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return SplitWorkers(joined)
	}
	return []string{}
}

// SplitWorkers splits a comma-joined worker string into a clean list.
func SplitWorkers(joined string) []string {
	return cleanWorkerList(strings.Split(joined, ","))
}

func cleanWorkerList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.TrimSpace(w)
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func parseDate(value string) time.Time {
	if value == "" || strings.EqualFold(value, "N/A") {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseDuration(raw json.RawMessage) int {
	const defaultMinutes = 60
	if len(raw) == 0 {
		return defaultMinutes
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
	}
	return defaultMinutes
}

func pickID(raw upstream.Booking) int {
	if raw.BookingID != nil {
		return *raw.BookingID
	}
	if raw.ID != nil {
		return *raw.ID
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
