package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/kushiservices/admin-backend/internal/models"
)

// DateMode selects how the date stage interprets the filter.
type DateMode string

const (
	DateAll       DateMode = "all"
	DateToday     DateMode = "today"
	DateYesterday DateMode = "yesterday"
	DateLast7     DateMode = "last7"
	DateThisMonth DateMode = "month"
	DateRange     DateMode = "range"
	DateDay       DateMode = "day"
	DateMonth     DateMode = "custom-month"
)

// DateFilter describes the date stage. All comparisons are day-granular
// and inclusive on both ends; a zero From or To leaves that end open.
type DateFilter struct {
	Mode  DateMode
	From  time.Time
	To    time.Time
	Day   time.Time
	Month time.Month
	Year  int
}

// Criteria is the full filter state of one list view. The stages always
// run in the same order: status, then date, then search.
type Criteria struct {
	Status string
	Date   DateFilter
	Search string
}

// FilterStage retains one stage's output so later stages can be
// recomputed without redoing earlier ones.
type FilterStage struct {
	Name    string
	Records []models.Booking
}

// FilterResult is the pipeline outcome with per-stage outputs retained.
type FilterResult struct {
	Visible []models.Booking
	Stages  []FilterStage
}

// ApplyFilters runs the full pipeline against a record set. now anchors
// the relative date modes (today, yesterday, last 7 days, this month).
func ApplyFilters(records []models.Booking, c Criteria, now time.Time) FilterResult {
	afterStatus := FilterByStatus(records, c.Status)
	afterDate := FilterByDate(afterStatus, c.Date, now)
	afterSearch := FilterBySearch(afterDate, c.Search)
	return FilterResult{
		Visible: afterSearch,
		Stages: []FilterStage{
			{Name: "status", Records: afterStatus},
			{Name: "date", Records: afterDate},
			{Name: "search", Records: afterSearch},
		},
	}
}

// FilterByStatus keeps records whose status matches, case-insensitively.
// An empty or "all" status keeps everything.
func FilterByStatus(records []models.Booking, status string) []models.Booking {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return records
	}
	out := make([]models.Booking, 0, len(records))
	for _, b := range records {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// FilterByDate keeps records whose booking date falls inside the window.
// Records without a parsable date pass only in the "all" mode.
func FilterByDate(records []models.Booking, f DateFilter, now time.Time) []models.Booking {
	if f.Mode == "" || f.Mode == DateAll {
		return records
	}
	from, to, ok := f.window(now)
	if !ok {
		return records
	}
	out := make([]models.Booking, 0, len(records))
	for _, b := range records {
		if !b.HasDate() {
			continue
		}
		d := dayOf(b.Date)
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && d.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// window resolves the mode into an inclusive [from, to] pair of
// day-truncated bounds. ok is false when the filter is underspecified,
// in which case the stage passes everything through.
func (f DateFilter) window(now time.Time) (from, to time.Time, ok bool) {
	today := dayOf(now)
	switch f.Mode {
	case DateToday:
		return today, today, true
	case DateYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y, true
	case DateLast7:
		// The trailing seven calendar days, today included.
		return today.AddDate(0, 0, -6), today, true
	case DateThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), true
	case DateRange:
		if f.From.IsZero() && f.To.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		from, to = f.From, f.To
		if !from.IsZero() {
			from = dayOf(from)
		}
		if !to.IsZero() {
			to = dayOf(to)
		}
		return from, to, true
	case DateDay:
		if f.Day.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		d := dayOf(f.Day)
		return d, d, true
	case DateMonth:
		if f.Year == 0 || f.Month == 0 {
			return time.Time{}, time.Time{}, false
		}
		first := time.Date(f.Year, f.Month, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterBySearch keeps records where the term appears in the customer
// name, email, phone, or the id rendered as a string. Matching is
// case-insensitive; an empty term keeps everything.
func FilterBySearch(records []models.Booking, term string) []models.Booking {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]models.Booking, 0, len(records))
	for _, b := range records {
		if matchesSearch(b, term) {
			out = append(out, b)
		}
	}
	return out
}

func matchesSearch(b models.Booking, term string) bool {
	fields := []string{
		strconv.Itoa(b.ID),
		strings.ToLower(b.CustomerName),
		strings.ToLower(b.CustomerEmail),
		strings.ToLower(b.CustomerPhone),
	}
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}

// dayOf truncates a timestamp to its calendar date. The calendar date as
// written upstream is what counts, so no timezone shifting happens here.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
