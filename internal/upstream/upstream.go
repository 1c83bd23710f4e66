package upstream

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kushiservices/admin-backend/internal/models"
)

var ErrNotFound = errors.New("upstream: not found")

// StatusRequest is the body of PUT /bookings/{id}/status. CanceledBy and
// CancellationReason travel only when cancelling.
type StatusRequest struct {
	Status             string `json:"status"`
	CanceledBy         string `json:"canceledBy,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// InspectionRequest is the body of PUT /bookings/inspections/{id}. The
// worker list is sent comma-joined, matching what the backend stores.
type InspectionRequest struct {
	InspectionStatus string  `json:"inspection_status"`
	BookingAmount    float64 `json:"booking_amount"`
	BookingStatus    string  `json:"bookingStatus"`
	SiteVisit        string  `json:"site_visit"`
	WorkerAssign     string  `json:"worker_assign"`
	Discount         float64 `json:"discount"`
}

// Booking is the loosely-typed record as the backend sends it: fields may
// be absent, null, or present under legacy names. Pointer and RawMessage
// fields let the normalizer distinguish "missing" from zero values.
type Booking struct {
	BookingID *int `json:"booking_id"`
	ID        *int `json:"id"`

	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	CustomerNumber string `json:"customer_number"`

	ServiceName string `json:"booking_service_name"`

	BookingAmount *float64 `json:"booking_amount"`
	GrandTotal    *float64 `json:"grand_total"`
	TotalAmount   *float64 `json:"total_amount"`
	Discount      *float64 `json:"discount"`

	BookingDate string          `json:"booking_date"`
	BookingTime string          `json:"booking_time"`
	Duration    json.RawMessage `json:"duration"`

	BookingStatus      string `json:"bookingStatus"`
	BookingStatusSnake string `json:"booking_status"`
	CanceledBy         string `json:"canceledBy"`
	CancellationReason string `json:"cancellation_reason"`

	AddressLine1 string `json:"address_line_1"`
	Address      string `json:"address"`
	AddressLine2 string `json:"address_line_2"`
	AddressLine3 string `json:"address_line_3"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Pincode      string `json:"pincode"`

	// Either a JSON array of names or one comma-joined string.
	WorkerAssign json.RawMessage `json:"worker_assign"`

	InspectionStatus      string `json:"inspection_status"`
	InspectionStatusCamel string `json:"inspectionStatus"`
	SiteVisit             string `json:"site_visit"`

	PaymentMethod      string `json:"paymentMethod"`
	PaymentStatus      string `json:"paymentStatus"`
	PaymentStatusSnake string `json:"payment_status"`
}

// RevenueRow is one entry of GET /admin/revenue-by-service; older backends
// report totalRevenue, newer ones revenue.
type RevenueRow struct {
	Service      string   `json:"service"`
	ServiceName  string   `json:"service_name"`
	TotalRevenue *float64 `json:"totalRevenue"`
	Revenue      *float64 `json:"revenue"`
}

// Client is the booking platform's REST API as consumed by the console.
type Client interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	ListInspections(ctx context.Context, status string) ([]Booking, error)
	ListInvoices(ctx context.Context) ([]Booking, error)

	UpdateStatus(ctx context.Context, bookingID int, req StatusRequest) error
	UpdateDiscount(ctx context.Context, bookingID int, discount float64) error
	UpdatePaymentStatus(ctx context.Context, bookingID int, paymentStatus string) error
	AssignWorker(ctx context.Context, bookingID int, workerName string) error
	RemoveWorker(ctx context.Context, bookingID int, workerName string) error
	UpdateInspection(ctx context.Context, bookingID int, req InspectionRequest) (Booking, error)

	Overview(ctx context.Context) (json.RawMessage, error)
	DashboardOverview(ctx context.Context) (json.RawMessage, error)
	Statistics(ctx context.Context) (json.RawMessage, error)
	TopRatedServices(ctx context.Context) (json.RawMessage, error)
	TopBookedCustomers(ctx context.Context) (json.RawMessage, error)
	RevenueByService(ctx context.Context) ([]RevenueRow, error)
	ServiceReportCSV(ctx context.Context) ([]byte, error)
	RecentActivities(ctx context.Context) ([]models.Activity, error)

	ListContacts(ctx context.Context, filter string) (json.RawMessage, error)
	MarkContactRead(ctx context.Context, contactID int) error

	ListCustomers(ctx context.Context) (json.RawMessage, error)
	CreateCustomer(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	UpdateCustomer(ctx context.Context, customerID int, body json.RawMessage) (json.RawMessage, error)
	DeleteCustomer(ctx context.Context, customerID int) error
	ListServices(ctx context.Context) (json.RawMessage, error)
	CreateService(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	UpdateService(ctx context.Context, serviceID int, body json.RawMessage) (json.RawMessage, error)
	DeleteService(ctx context.Context, serviceID int) error
}
