package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kushiservices/admin-backend/internal/models"
)

// MockClient serves deterministic fixture data so the console can run
// without a live backend. It records every mutating call in order and can
// be told to fail a named operation, which the workflow tests rely on.
type MockClient struct {
	mu       sync.Mutex
	bookings map[int]*Booking
	contacts []mockContact
	calls    []string
	failOn   map[string]error
}

func NewMockClient() *MockClient {
	m := &MockClient{
		bookings: map[int]*Booking{},
		contacts: mockContacts(),
		failOn:   map[string]error{},
	}
	for _, b := range mockBookings() {
		rec := b
		m.bookings[*rec.BookingID] = &rec
	}
	return m
}

// FailOn makes the named operation ("discount", "status", "payment-status",
// "assign-worker", "remove-worker", "inspection", "mark-read") return err.
func (m *MockClient) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[op] = err
}

// Calls returns the mutating calls observed so far, in issue order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) record(op string, bookingID int, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if detail != "" {
		m.calls = append(m.calls, fmt.Sprintf("%s(%d,%s)", op, bookingID, detail))
	} else {
		m.calls = append(m.calls, fmt.Sprintf("%s(%d)", op, bookingID))
	}
	if err, ok := m.failOn[op]; ok && err != nil {
		return err
	}
	return nil
}

func (m *MockClient) ListBookings(ctx context.Context) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].BookingID < *out[j].BookingID })
	return out, nil
}

func (m *MockClient) ListInspections(ctx context.Context, status string) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.BookingAmount != nil && *b.BookingAmount > 0 {
			continue
		}
		if status != "" && b.BookingStatus != status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].BookingID < *out[j].BookingID })
	return out, nil
}

func (m *MockClient) ListInvoices(ctx context.Context) ([]Booking, error) {
	return m.ListBookings(ctx)
}

func (m *MockClient) UpdateStatus(ctx context.Context, bookingID int, req StatusRequest) error {
	if err := m.record("status", bookingID, req.Status); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	b.BookingStatus = req.Status
	b.CanceledBy = req.CanceledBy
	b.CancellationReason = req.CancellationReason
	return nil
}

func (m *MockClient) UpdateDiscount(ctx context.Context, bookingID int, discount float64) error {
	if err := m.record("discount", bookingID, ""); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	b.Discount = &discount
	return nil
}

func (m *MockClient) UpdatePaymentStatus(ctx context.Context, bookingID int, paymentStatus string) error {
	if err := m.record("payment-status", bookingID, paymentStatus); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	b.PaymentStatus = paymentStatus
	return nil
}

func (m *MockClient) AssignWorker(ctx context.Context, bookingID int, workerName string) error {
	if err := m.record("assign-worker", bookingID, workerName); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	var workers []string
	_ = json.Unmarshal(b.WorkerAssign, &workers)
	workers = append(workers, workerName)
	raw, _ := json.Marshal(workers)
	b.WorkerAssign = raw
	return nil
}

func (m *MockClient) RemoveWorker(ctx context.Context, bookingID int, workerName string) error {
	if err := m.record("remove-worker", bookingID, workerName); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	var workers []string
	_ = json.Unmarshal(b.WorkerAssign, &workers)
	out := workers[:0]
	for _, w := range workers {
		if w != workerName {
			out = append(out, w)
		}
	}
	raw, _ := json.Marshal(out)
	b.WorkerAssign = raw
	return nil
}

func (m *MockClient) UpdateInspection(ctx context.Context, bookingID int, req InspectionRequest) (Booking, error) {
	if err := m.record("inspection", bookingID, req.InspectionStatus); err != nil {
		return Booking{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return Booking{}, ErrNotFound
	}
	b.InspectionStatus = req.InspectionStatus
	b.SiteVisit = req.SiteVisit
	b.BookingStatus = req.BookingStatus
	amount := req.BookingAmount
	b.BookingAmount = &amount
	discount := req.Discount
	b.Discount = &discount
	raw, _ := json.Marshal(req.WorkerAssign)
	b.WorkerAssign = raw
	return *b, nil
}

func (m *MockClient) Overview(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"total_bookings":3,"total_customers":3,"total_revenue":5300}`), nil
}

func (m *MockClient) DashboardOverview(ctx context.Context) (json.RawMessage, error) {
	return m.Overview(ctx)
}

func (m *MockClient) Statistics(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"completed":1,"pending":1,"cancelled":0}`), nil
}

func (m *MockClient) TopRatedServices(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"service":"Deep Cleaning","rating":4.8}]`), nil
}

func (m *MockClient) TopBookedCustomers(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"customer_name":"Rajesh Kumar","booking_count":4}]`), nil
}

func (m *MockClient) RevenueByService(ctx context.Context) ([]RevenueRow, error) {
	deep := 4500.0
	sofa := 800.0
	return []RevenueRow{
		{Service: "Deep Cleaning", TotalRevenue: &deep},
		{Service: "Sofa Shampooing", Revenue: &sofa},
	}, nil
}

func (m *MockClient) ServiceReportCSV(ctx context.Context) ([]byte, error) {
	return []byte("service,bookings,revenue\nDeep Cleaning,2,4500\nSofa Shampooing,1,800\n"), nil
}

func (m *MockClient) RecentActivities(ctx context.Context) ([]models.Activity, error) {
	return []models.Activity{
		{ID: 1, Type: "booking", Message: "New booking #103 received", CreatedAt: time.Now().UTC()},
	}, nil
}

func (m *MockClient) ListContacts(ctx context.Context, filter string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mockContact, 0, len(m.contacts))
	for _, ct := range m.contacts {
		switch filter {
		case "read":
			if !ct.Read {
				continue
			}
		case "unread":
			if ct.Read {
				continue
			}
		}
		out = append(out, ct)
	}
	return json.Marshal(out)
}

func (m *MockClient) MarkContactRead(ctx context.Context, contactID int) error {
	if err := m.record("mark-read", contactID, ""); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contacts {
		if m.contacts[i].ContactID == contactID {
			m.contacts[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockClient) ListCustomers(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[
		{"customer_id":1,"customer_name":"Rajesh Kumar","customer_email":"rajesh@example.com","customer_number":"9876512345"},
		{"customer_id":2,"customer_name":"Priya Sharma","customer_email":"priya@example.com","customer_number":"9876500000"}
	]`), nil
}

func (m *MockClient) CreateCustomer(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (m *MockClient) UpdateCustomer(ctx context.Context, customerID int, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (m *MockClient) DeleteCustomer(ctx context.Context, customerID int) error {
	return nil
}

func (m *MockClient) ListServices(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"service_id":1,"service_name":"Deep Cleaning","service_cost":2500}]`), nil
}

func (m *MockClient) CreateService(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (m *MockClient) UpdateService(ctx context.Context, serviceID int, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (m *MockClient) DeleteService(ctx context.Context, serviceID int) error {
	return nil
}

type mockContact struct {
	ContactID int    `json:"contact_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func mockContacts() []mockContact {
	return []mockContact{
		{ContactID: 1, Name: "Rajesh Kumar", Email: "rajesh@example.com", Message: "Do you cover Whitefield?", Read: true, CreatedAt: "2025-06-08T11:20:00"},
		{ContactID: 2, Name: "Sunita Devi", Email: "sunita@example.com", Message: "Need a quote for sofa shampooing.", Read: false, CreatedAt: "2025-06-10T09:05:00"},
	}
}

func mockBookings() []Booking {
	id1, id2, id3 := 101, 102, 103
	amt1, amt2, amt3 := 2500.0, 800.0, 0.0
	disc1 := 200.0
	return []Booking{
		{
			BookingID:      &id1,
			CustomerName:   "Rajesh Kumar",
			CustomerEmail:  "rajesh@example.com",
			CustomerNumber: "9876512345",
			ServiceName:    "Deep Cleaning",
			BookingAmount:  &amt1,
			Discount:       &disc1,
			BookingDate:    time.Now().UTC().Format("2006-01-02"),
			BookingTime:    "10:00 AM",
			BookingStatus:  "confirmed",
			AddressLine1:   "No 12, 4th Cross",
			City:           "Bengaluru",
			ZipCode:        "560049",
			WorkerAssign:   json.RawMessage(`"Ravi, Meena"`),
			PaymentMethod:  "UPI",
			PaymentStatus:  "paid",
		},
		{
			BookingID:      &id2,
			CustomerName:   "Priya Sharma",
			CustomerEmail:  "priya@example.com",
			CustomerNumber: "9876500000",
			ServiceName:    "Sofa Shampooing",
			BookingAmount:  &amt2,
			BookingDate:    time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02"),
			BookingTime:    "2:30 PM",
			BookingStatus:  "pending",
			City:           "Bengaluru",
			Pincode:        "560037",
			WorkerAssign:   json.RawMessage(`[]`),
		},
		{
			BookingID:        &id3,
			CustomerName:     "Anil Mehta",
			CustomerEmail:    "anil@example.com",
			CustomerNumber:   "9876522222",
			ServiceName:      "Full Home Inspection",
			BookingAmount:    &amt3,
			BookingDate:      "not-a-date",
			BookingTime:      "9:00 AM",
			BookingStatus:    "pending",
			InspectionStatus: "pending",
			SiteVisit:        "pending",
			City:             "Bengaluru",
			WorkerAssign:     json.RawMessage(`[]`),
		},
	}
}
