package service

import (
	"math"
	"testing"

	"github.com/kushiservices/admin-backend/internal/upstream"
)

func TestNormalizeRevenue(t *testing.T) {
	legacy := 600.0
	current := 300.0
	both := 100.0
	ignored := 999.0

	rows := []upstream.RevenueRow{
		{Service: "Deep Cleaning", TotalRevenue: &legacy},
		{ServiceName: "Sofa Shampooing", Revenue: &current},
		// totalRevenue wins when both are present.
		{Service: "Pest Control", TotalRevenue: &both, Revenue: &ignored},
		{Service: "No Numbers"},
		{Revenue: &current},
	}

	out := NormalizeRevenue(rows)
	if len(out) != 3 {
		t.Fatalf("len = %d, want rows without name or revenue dropped", len(out))
	}
	if out[0].Service != "Deep Cleaning" || out[1].Service != "Sofa Shampooing" || out[2].Service != "Pest Control" {
		t.Errorf("order = %s,%s,%s, want highest revenue first", out[0].Service, out[1].Service, out[2].Service)
	}
	if out[2].Revenue != 100 {
		t.Errorf("Pest Control revenue = %v, want legacy field preferred", out[2].Revenue)
	}
	if math.Abs(out[0].Percentage-60) > 1e-9 {
		t.Errorf("percentage = %v, want 60", out[0].Percentage)
	}
}

func TestNormalizeRevenueEmpty(t *testing.T) {
	if out := NormalizeRevenue(nil); len(out) != 0 {
		t.Errorf("len = %d", len(out))
	}
}
