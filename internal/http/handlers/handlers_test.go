package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/kushiservices/admin-backend/internal/events"
	"github.com/kushiservices/admin-backend/internal/service"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

func newTestHandler() (*Handler, *upstream.MockClient) {
	gin.SetMode(gin.TestMode)
	mock := upstream.NewMockClient()
	bus := events.NewBus()
	return &Handler{
		Upstream:          mock,
		Bus:               bus,
		Feed:              &service.ActivityFeed{Upstream: mock, Logger: zerolog.Nop()},
		Workflow:          &service.Workflow{Upstream: mock, Bus: bus, Logger: zerolog.Nop()},
		Bookings:          service.NewView(20),
		Inspects:          service.NewView(20),
		Validator:         validator.New(),
		Logger:            zerolog.Nop(),
		PageSize:          20,
		CustomersPageSize: 50,
	}, mock
}

func newTestRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	api := r.Group("/api")
	{
		api.GET("/bookings", h.BookingsList)
		api.GET("/bookings/:id", h.BookingDetails)
		api.PUT("/bookings/:id/update", h.BookingUpdate)
		api.POST("/bookings/:id/workers", h.WorkersAssign)
		api.DELETE("/bookings/:id/workers/:name", h.WorkerRemove)
		api.GET("/inspections", h.InspectionsList)
		api.PUT("/inspections/:id", h.InspectionUpdate)
		api.POST("/inspections/:id/move", h.InspectionMove)
		api.GET("/invoices", h.InvoicesList)
		api.PUT("/invoices/:id/payment-status", h.InvoicePaymentStatus)
		api.GET("/admin/revenue-by-service", h.RevenueByService)
		api.GET("/admin/debug/filters", h.DebugFilters)
		api.GET("/reports/invoices/csv", h.InvoicesCSV)
		api.GET("/customers", h.CustomersList)
		api.GET("/messages", h.MessagesList)
		api.PUT("/messages/:id/read", h.MessageMarkRead)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthzWithoutStore(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBookingsList(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/api/bookings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items      []json.RawMessage `json:"items"`
		Page       int               `json:"page"`
		TotalPages int               `json:"total_pages"`
		Total      int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || resp.Page != 1 || resp.TotalPages != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestBookingsListStatusFilter(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/api/bookings?status=confirmed", nil)
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, only fixture 101 is confirmed", resp.Total)
	}
}

func TestBookingDetailsNotFound(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/bookings/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestBookingUpdateCancelledWithoutReason(t *testing.T) {
	h, mock := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPut, "/api/bookings/101/update", gin.H{
		"status": "cancelled",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if calls := mock.Calls(); len(calls) != 0 {
		t.Errorf("upstream calls = %v, validation must happen first", calls)
	}
}

func TestBookingUpdateSuccess(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPut, "/api/bookings/101/update", gin.H{
		"status":         "completed",
		"discount":       300,
		"payment_status": "paid",
		"workers":        []string{"Asha"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status      string  `json:"booking_status"`
		Discount    float64 `json:"discount"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "completed" || resp.Discount != 300 || resp.TotalAmount != 2200 {
		t.Errorf("resp = %+v", resp)
	}

	// The view must reflect the confirmed update.
	if b, _ := h.Bookings.Get(101); b.Status != "completed" {
		t.Errorf("view status = %q", b.Status)
	}
}

func TestBookingUpdateUpstreamFailureKeepsView(t *testing.T) {
	h, mock := newTestHandler()
	r := newTestRouter(h)

	// Warm the view, then break the discount step.
	doJSON(t, r, http.MethodGet, "/api/bookings", nil)
	mock.FailOn("discount", errors.New("boom"))

	w := doJSON(t, r, http.MethodPut, "/api/bookings/101/update", gin.H{
		"status": "completed",
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if b, _ := h.Bookings.Get(101); b.Status != "confirmed" {
		t.Errorf("view status = %q, failed update must not mutate the view", b.Status)
	}
}

func TestWorkersAssignValidation(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodPost, "/api/bookings/101/workers", gin.H{
		"workers": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestInspectionsListOnlyUnpriced(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/inspections", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, only fixture 103 is unpriced", resp.Total)
	}
}

func TestInspectionMoveRequiresEligibility(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/inspections/103/move", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	// Confirm and price it, then the move goes through.
	w = doJSON(t, r, http.MethodPut, "/api/inspections/103", gin.H{
		"inspection_status": "confirmed",
		"booking_amount":    1500,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		MoveEligible bool `json:"move_eligible"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.MoveEligible {
		t.Error("record should be move eligible after confirm and price")
	}
	// Pricing it already removed it from the inspection list.
	w = doJSON(t, r, http.MethodPost, "/api/inspections/103/move", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, priced record should have left the list", w.Code)
	}
}

func TestInvoicesListTotals(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/invoices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Total          int     `json:"total"`
		RevenuePaid    float64 `json:"revenue_paid"`
		RevenuePending float64 `json:"revenue_pending"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d", resp.Total)
	}
	// Fixture 101: 2500-200 paid. Fixture 102: 800 unpaid. Fixture 103: 0.
	if resp.RevenuePaid != 2300 || resp.RevenuePending != 800 {
		t.Errorf("paid=%v pending=%v", resp.RevenuePaid, resp.RevenuePending)
	}
}

func TestInvoicePaymentStatusValidation(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodPut, "/api/invoices/101/payment-status", gin.H{
		"payment_status": "maybe",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRevenueByServiceNormalized(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/admin/revenue-by-service", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rows []struct {
		Service    string  `json:"service"`
		Revenue    float64 `json:"revenue"`
		Percentage float64 `json:"percentage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Service != "Deep Cleaning" {
		t.Errorf("rows = %+v", rows)
	}
	if rows[0].Percentage == 0 {
		t.Error("percentage should be derived")
	}
}

func TestDebugFilters(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)
	doJSON(t, r, http.MethodGet, "/api/bookings?status=confirmed", nil)

	w := doJSON(t, r, http.MethodGet, "/api/admin/debug/filters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Stages []struct {
			Stage string `json:"stage"`
			Count int    `json:"count"`
		} `json:"stages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Stages) != 3 || resp.Stages[0].Stage != "status" {
		t.Errorf("stages = %+v", resp.Stages)
	}
}

func TestInvoicesCSVDownload(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/reports/invoices/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("missing Content-Disposition")
	}
}

func TestMessagesListTabs(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	counts := map[string]int{"": 2, "?tab=read": 1, "?tab=unread": 1}
	for query, want := range counts {
		w := doJSON(t, r, http.MethodGet, "/api/messages"+query, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%q status = %d: %s", query, w.Code, w.Body.String())
		}
		var msgs []json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
			t.Fatal(err)
		}
		if len(msgs) != want {
			t.Errorf("%q returned %d messages, want %d", query, len(msgs), want)
		}
	}

	if w := doJSON(t, r, http.MethodGet, "/api/messages?tab=starred", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown tab status = %d", w.Code)
	}
}

func TestMessageMarkRead(t *testing.T) {
	h, mock := newTestHandler()
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPut, "/api/messages/2/read", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if calls := mock.Calls(); len(calls) != 1 || calls[0] != "mark-read(2)" {
		t.Errorf("calls = %v", calls)
	}

	// The unread tab no longer carries it.
	w = doJSON(t, r, http.MethodGet, "/api/messages?tab=unread", nil)
	var msgs []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("unread after mark-read = %d messages", len(msgs))
	}

	if w := doJSON(t, r, http.MethodPut, "/api/messages/999/read", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown contact status = %d", w.Code)
	}
}

func TestCustomersListPaginated(t *testing.T) {
	h, _ := newTestHandler()
	w := doJSON(t, newTestRouter(h), http.MethodGet, "/api/customers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items      []json.RawMessage `json:"items"`
		PageSize   int               `json:"page_size"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 2 || resp.PageSize != 50 || resp.TotalPages != 1 {
		t.Errorf("resp = %+v", resp)
	}
}
