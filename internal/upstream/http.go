package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kushiservices/admin-backend/internal/models"
)

// HTTPClient talks to the booking platform over its REST API.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPClient) httpClient() *http.Client {
	if h.Client == nil {
		return &http.Client{Timeout: 15 * time.Second}
	}
	return h.Client
}

func (h HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upstream %s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (h HTTPClient) ListBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := h.do(ctx, http.MethodGet, "/api/bookings/allbookings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) ListInspections(ctx context.Context, status string) ([]Booking, error) {
	path := "/api/bookings/inspections/all"
	if status != "" {
		path += "?status=" + status
	}
	var out []Booking
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) ListInvoices(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := h.do(ctx, http.MethodGet, "/api/admin/invoices", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) UpdateStatus(ctx context.Context, bookingID int, req StatusRequest) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/status", bookingID), req, nil)
}

func (h HTTPClient) UpdateDiscount(ctx context.Context, bookingID int, discount float64) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/discount", bookingID), map[string]float64{"discount": discount}, nil)
}

func (h HTTPClient) UpdatePaymentStatus(ctx context.Context, bookingID int, paymentStatus string) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment-status", bookingID), map[string]string{"paymentStatus": paymentStatus}, nil)
}

func (h HTTPClient) AssignWorker(ctx context.Context, bookingID int, workerName string) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/%d/assign-worker", bookingID), map[string]string{"workername": workerName}, nil)
}

func (h HTTPClient) RemoveWorker(ctx context.Context, bookingID int, workerName string) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/%d/remove-worker", bookingID), map[string]string{"workername": workerName}, nil)
}

func (h HTTPClient) UpdateInspection(ctx context.Context, bookingID int, req InspectionRequest) (Booking, error) {
	var out Booking
	if err := h.do(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/inspections/%d", bookingID), req, &out); err != nil {
		return Booking{}, err
	}
	return out, nil
}

func (h HTTPClient) Overview(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/admin/overview")
}

func (h HTTPClient) DashboardOverview(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/admin/dashboard-overview")
}

func (h HTTPClient) Statistics(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/admin/statistics")
}

func (h HTTPClient) TopRatedServices(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/admin/top-rated-services")
}

func (h HTTPClient) TopBookedCustomers(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/admin/top-booked-customers")
}

func (h HTTPClient) RevenueByService(ctx context.Context) ([]RevenueRow, error) {
	var out []RevenueRow
	if err := h.do(ctx, http.MethodGet, "/api/admin/revenue-by-service", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServiceReportCSV returns the upstream CSV feed verbatim; the console
// re-serves it as a download.
func (h HTTPClient) ServiceReportCSV(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/api/admin/service-report/csv", nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream GET service-report/csv: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (h HTTPClient) RecentActivities(ctx context.Context) ([]models.Activity, error) {
	var out []models.Activity
	if err := h.do(ctx, http.MethodGet, "/api/admin/recent-activities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) raw(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListContacts fetches contact requests; filter is "", "read" or
// "unread", each backed by its own upstream path.
func (h HTTPClient) ListContacts(ctx context.Context, filter string) (json.RawMessage, error) {
	path := "/api/contact/all"
	switch filter {
	case "read":
		path = "/api/contact/read"
	case "unread":
		path = "/api/contact/unread"
	}
	return h.raw(ctx, path)
}

func (h HTTPClient) MarkContactRead(ctx context.Context, contactID int) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/api/contact/mark-read/%d", contactID), nil, nil)
}

func (h HTTPClient) ListCustomers(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/customers")
}

func (h HTTPClient) CreateCustomer(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, http.MethodPost, "/api/customers", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) UpdateCustomer(ctx context.Context, customerID int, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d", customerID), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) DeleteCustomer(ctx context.Context, customerID int) error {
	return h.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", customerID), nil, nil)
}

func (h HTTPClient) ListServices(ctx context.Context) (json.RawMessage, error) {
	return h.raw(ctx, "/api/customers/services")
}

func (h HTTPClient) CreateService(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, http.MethodPost, "/api/customers/services", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) UpdateService(ctx context.Context, serviceID int, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.do(ctx, http.MethodPut, fmt.Sprintf("/api/customers/services/%d", serviceID), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h HTTPClient) DeleteService(ctx context.Context, serviceID int) error {
	return h.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/services/%d", serviceID), nil, nil)
}
