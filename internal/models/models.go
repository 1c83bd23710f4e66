package models

import "time"

// Booking statuses as stored after normalization. The display layer
// re-capitalizes; everything below the handlers works in lowercase.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Site-visit states carried by inspection records.
const (
	SiteVisitPending      = "pending"
	SiteVisitCompleted    = "completed"
	SiteVisitNotCompleted = "not-completed"
)

const (
	CanceledByCustomer = "customer"
	CanceledByAdmin    = "admin"
)

const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// Booking is the canonical record every page of the console operates on,
// independent of upstream field-naming variance. Empty string is the
// "unknown" sentinel for customer fields; a zero Date means the upstream
// value did not parse (DateRaw keeps whatever was sent, for display).
type Booking struct {
	ID int `json:"booking_id"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_number"`
	AddressLine1  string `json:"address_line_1"`
	AddressLine2  string `json:"address_line_2"`
	AddressLine3  string `json:"address_line_3"`
	City          string `json:"city"`
	Pincode       string `json:"pincode"`

	ServiceName string `json:"booking_service_name"`

	BaseAmount  float64 `json:"booking_amount"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `json:"total_amount"`

	Date            time.Time `json:"booking_date"`
	DateRaw         string    `json:"booking_date_raw,omitempty"`
	Time            string    `json:"booking_time"`
	DurationMinutes int       `json:"duration_minutes"`

	Status             string `json:"booking_status"`
	CanceledBy         string `json:"canceled_by,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	InspectionStatus string `json:"inspection_status"`
	SiteVisit        string `json:"site_visit"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	Workers []string `json:"worker_assign"`
}

// HasDate reports whether the upstream date parsed. Records without a
// parsable date are excluded from every date filter except "all".
func (b Booking) HasDate() bool {
	return !b.Date.IsZero()
}

// GrandTotal derives the billable amount. TotalAmount is never trusted
// from input when it can be derived.
func GrandTotal(baseAmount, discount float64) float64 {
	total := baseAmount - discount
	if total < 0 {
		return 0
	}
	return total
}

// Invoice is a view derived from a booking; it carries no identity of its
// own beyond the booking id.
type Invoice struct {
	BookingID     int       `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	Date          time.Time `json:"booking_date"`
	BaseAmount    float64   `json:"booking_amount"`
	Discount      float64   `json:"discount"`
	Amount        float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	BookingStatus string    `json:"booking_status"`
}

type Customer struct {
	ID       int    `json:"customer_id"`
	Name     string `json:"customer_name"`
	Email    string `json:"customer_email"`
	Phone    string `json:"customer_number"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Bookings int    `json:"booking_count"`
}

// ServiceRevenue is one row of the revenue-by-service breakdown.
type ServiceRevenue struct {
	Service    string  `json:"service"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// Activity is one entry of the upstream recent-activity feed.
type Activity struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkflowRun is the audit record of one multi-step update attempt.
type WorkflowRun struct {
	ID         string     `json:"id"`
	BookingID  int        `json:"booking_id"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	Steps      []byte     `json:"steps"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}
