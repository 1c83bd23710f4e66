package service

import (
	"sort"
	"strings"

	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

// NormalizeRevenue maps the upstream revenue rows into the canonical
// breakdown: legacy totalRevenue wins over revenue, rows reporting
// neither are dropped, and percentages are derived against the grand
// total. Rows come back sorted by revenue, highest first.
func NormalizeRevenue(rows []upstream.RevenueRow) []models.ServiceRevenue {
	out := make([]models.ServiceRevenue, 0, len(rows))
	var total float64
	for _, row := range rows {
		name := strings.TrimSpace(row.Service)
		if name == "" {
			name = strings.TrimSpace(row.ServiceName)
		}
		if name == "" {
			continue
		}
		var revenue float64
		switch {
		case row.TotalRevenue != nil:
			revenue = *row.TotalRevenue
		case row.Revenue != nil:
			revenue = *row.Revenue
		default:
			continue
		}
		if revenue < 0 {
			revenue = 0
		}
		out = append(out, models.ServiceRevenue{Service: name, Revenue: revenue})
		total += revenue
	}

	if total > 0 {
		for i := range out {
			out[i].Percentage = out[i].Revenue / total * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}
