package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientPathsAndBodies(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{method: r.Method, path: r.URL.Path, body: string(body)})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/bookings/allbookings":
			io.WriteString(w, `[{"booking_id":1}]`)
		default:
			io.WriteString(w, `{}`)
		}
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL}
	ctx := context.Background()

	if _, err := c.ListBookings(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateStatus(ctx, 5, StatusRequest{Status: "cancelled", CanceledBy: "admin", CancellationReason: "duplicate"}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateDiscount(ctx, 5, 150); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdatePaymentStatus(ctx, 5, "paid"); err != nil {
		t.Fatal(err)
	}
	if err := c.AssignWorker(ctx, 5, "Asha"); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveWorker(ctx, 5, "Asha"); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"GET", "/api/bookings/allbookings", ""},
		{"PUT", "/api/bookings/5/status", `{"status":"cancelled","canceledBy":"admin","cancellationReason":"duplicate"}`},
		{"PUT", "/api/bookings/5/discount", `{"discount":150}`},
		{"PUT", "/api/bookings/5/payment-status", `{"paymentStatus":"paid"}`},
		{"PUT", "/api/admin/5/assign-worker", `{"workername":"Asha"}`},
		{"PUT", "/api/admin/5/remove-worker", `{"workername":"Asha"}`},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(calls), len(want))
	}
	for i, w := range want {
		got := calls[i]
		if got.method != w.method || got.path != w.path {
			t.Errorf("call %d = %s %s, want %s %s", i, got.method, got.path, w.method, w.path)
		}
		if w.body != "" && got.body != w.body {
			t.Errorf("call %d body = %s, want %s", i, got.body, w.body)
		}
	}
}

func TestHTTPClientContactPaths(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL}
	ctx := context.Background()

	for _, filter := range []string{"", "read", "unread"} {
		if _, err := c.ListContacts(ctx, filter); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.MarkContactRead(ctx, 12); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"GET", "/api/contact/all"},
		{"GET", "/api/contact/read"},
		{"GET", "/api/contact/unread"},
		{"PUT", "/api/contact/mark-read/12"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d = %s %s, want %s %s", i, calls[i].method, calls[i].path, w.method, w.path)
		}
	}
}

func TestHTTPClientStatusRequestOmitsEmptyCancelFields(t *testing.T) {
	raw, err := json.Marshal(StatusRequest{Status: "confirmed"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"status":"confirmed"}` {
		t.Errorf("body = %s", raw)
	}
}

func TestHTTPClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL}
	if err := c.UpdateDiscount(context.Background(), 99, 10); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHTTPClientInspectionWorkersCommaJoined(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = string(body)
		io.WriteString(w, `{"booking_id":7}`)
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL}
	_, err := c.UpdateInspection(context.Background(), 7, InspectionRequest{
		InspectionStatus: "confirmed",
		BookingAmount:    1500,
		BookingStatus:    "confirmed",
		SiteVisit:        "completed",
		WorkerAssign:     "Asha, Kiran",
		Discount:         100,
	})
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(got), &body); err != nil {
		t.Fatal(err)
	}
	if body["worker_assign"] != "Asha, Kiran" {
		t.Errorf("worker_assign = %v, want comma-joined string", body["worker_assign"])
	}
	if body["bookingStatus"] != "confirmed" {
		t.Errorf("bookingStatus = %v", body["bookingStatus"])
	}
}
