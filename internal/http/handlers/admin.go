package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/db"
	"github.com/kushiservices/admin-backend/internal/service"
)

// passthrough proxies an upstream aggregate verbatim. The console does
// not reinterpret dashboard numbers, it just serves them.
func (h *Handler) passthrough(c *gin.Context, fetch func() (json.RawMessage, error)) {
	raw, err := fetch()
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream fetch failed", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) Overview(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.Overview(c.Request.Context()) })
}

func (h *Handler) DashboardOverview(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.DashboardOverview(c.Request.Context()) })
}

func (h *Handler) Statistics(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.Statistics(c.Request.Context()) })
}

func (h *Handler) TopRatedServices(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.TopRatedServices(c.Request.Context()) })
}

func (h *Handler) TopBookedCustomers(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.TopBookedCustomers(c.Request.Context()) })
}

// @Summary Revenue by service
// @Description Normalized revenue breakdown with derived percentages, highest revenue first.
// @Tags reports
// @Produce json
// @Success 200 {array} models.ServiceRevenue
// @Router /api/admin/revenue-by-service [get]
func (h *Handler) RevenueByService(c *gin.Context) {
	rows, err := h.Upstream.RevenueByService(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream fetch failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, service.NormalizeRevenue(rows))
}

func (h *Handler) RecentActivities(c *gin.Context) {
	activities, fetchedAt := h.Feed.Latest()
	c.JSON(http.StatusOK, gin.H{
		"items":      activities,
		"fetched_at": fetchedAt,
	})
}

// WorkflowRunsLatest reports the most recent multi-step update attempt.
func (h *Handler) WorkflowRunsLatest(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "audit store not configured", nil)
		return
	}
	run, err := h.Store.LatestWorkflowRun(c.Request.Context())
	if errors.Is(err, db.ErrNoRuns) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "no workflow runs yet", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "failed to read runs", err.Error())
		return
	}
	c.JSON(http.StatusOK, run)
}

// DebugFilters exposes the retained per-stage filter outputs and the
// recompute counters of the booking view.
func (h *Handler) DebugFilters(c *gin.Context) {
	stages := h.Bookings.Stages()
	out := make([]gin.H, 0, len(stages))
	for _, s := range stages {
		out = append(out, gin.H{"stage": s.Name, "count": len(s.Records)})
	}
	c.JSON(http.StatusOK, gin.H{
		"stages":     out,
		"recomputes": h.Bookings.Recomputes(),
	})
}

// Events streams booking updates as server-sent events until the client
// disconnects.
func (h *Handler) Events(c *gin.Context) {
	id, ch := h.Bus.Subscribe(16)
	defer h.Bus.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case u, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("booking-update", u)
			return true
		}
	})
}
