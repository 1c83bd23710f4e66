package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/service"
)

// @Summary List bookings
// @Description Filtered, paginated booking list. Filters: status, date mode, free-text search.
// @Tags bookings
// @Produce json
// @Param status query string false "booking status or all"
// @Param date query string false "all|today|yesterday|last7|month|range|day|custom-month"
// @Param q query string false "search term"
// @Param page query int false "page number"
// @Param refresh query bool false "refetch from upstream"
// @Success 200 {object} map[string]any
// @Router /api/bookings [get]
func (h *Handler) BookingsList(c *gin.Context) {
	if err := h.loadBookings(c); err != nil {
		return
	}
	crit, err := criteriaFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid date filter", err.Error())
		return
	}
	h.Bookings.SetCriteria(crit)
	h.Bookings.SetPage(queryPage(c))
	c.JSON(http.StatusOK, h.Bookings.Page())
}

func (h *Handler) BookingDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.loadBookings(c); err != nil {
		return
	}
	b, found := h.Bookings.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusUpdateRequest struct {
	Status             string   `json:"status" validate:"required"`
	CanceledBy         string   `json:"canceled_by"`
	CancellationReason string   `json:"cancellation_reason"`
	Discount           float64  `json:"discount" validate:"gte=0"`
	PaymentStatus      string   `json:"payment_status" validate:"omitempty,oneof=paid unpaid"`
	Workers            []string `json:"workers"`
}

// @Summary Update a booking
// @Description Applies the bundled edit in order: status, discount, payment status, worker assignments. Stops at the first upstream failure; completed steps stay applied.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "booking id"
// @Param body body statusUpdateRequest true "update"
// @Success 200 {object} models.Booking
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/bookings/{id}/update [put]
func (h *Handler) BookingUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}
	if err := h.loadBookings(c); err != nil {
		return
	}
	b, found := h.Bookings.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
		return
	}

	updated, err := h.Workflow.ApplyStatusUpdate(c.Request.Context(), b, service.StatusUpdate{
		Status:             req.Status,
		CanceledBy:         req.CanceledBy,
		CancellationReason: req.CancellationReason,
		Discount:           req.Discount,
		PaymentStatus:      req.PaymentStatus,
		Workers:            req.Workers,
	})
	if errors.Is(err, service.ErrCancellationReason) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cancellation requires a reason", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "update failed; completed steps were not rolled back", err.Error())
		return
	}

	h.Bookings.Update(updated)
	c.JSON(http.StatusOK, updated)
}

type assignWorkersRequest struct {
	Workers []string `json:"workers" validate:"required,min=1,dive,required"`
}

// @Summary Assign workers
// @Description Issues one assignment call per worker, in order. A failure reports the names that did land.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "booking id"
// @Param body body assignWorkersRequest true "workers"
// @Success 200 {object} models.Booking
// @Router /api/bookings/{id}/workers [post]
func (h *Handler) WorkersAssign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req assignWorkersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}
	if err := h.loadBookings(c); err != nil {
		return
	}
	b, found := h.Bookings.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
		return
	}

	updated, applied, err := h.Workflow.AssignWorkers(c.Request.Context(), b, req.Workers)
	h.Bookings.Update(updated)
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "assignment stopped partway", gin.H{
			"applied": applied,
			"reason":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) WorkerRemove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	name := c.Param("name")
	if err := h.loadBookings(c); err != nil {
		return
	}
	b, found := h.Bookings.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
		return
	}

	updated, err := h.Workflow.RemoveWorker(c.Request.Context(), b, name)
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "remove failed", err.Error())
		return
	}
	h.Bookings.Update(updated)
	c.JSON(http.StatusOK, updated)
}

// loadBookings fetches and normalizes the booking set when the view is
// cold or the caller asked for a refresh. Writes the error response
// itself so callers can just return.
func (h *Handler) loadBookings(c *gin.Context) error {
	if !wantsRefresh(c) && !h.Bookings.Empty() {
		return nil
	}
	raws, err := h.Upstream.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch bookings", err.Error())
		return err
	}
	h.Bookings.SetRecords(service.NormalizeBookings(raws))
	return nil
}
