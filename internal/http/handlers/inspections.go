package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/service"
)

// @Summary List inspection requests
// @Description Unpriced bookings awaiting inspection, with the same filter pipeline as the booking list.
// @Tags inspections
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/inspections [get]
func (h *Handler) InspectionsList(c *gin.Context) {
	if err := h.loadInspections(c); err != nil {
		return
	}
	crit, err := criteriaFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid date filter", err.Error())
		return
	}
	h.Inspects.SetCriteria(crit)
	h.Inspects.SetPage(queryPage(c))

	page := h.Inspects.Page()
	items := make([]gin.H, 0, len(page.Items))
	for _, b := range page.Items {
		items = append(items, gin.H{
			"booking":       b,
			"move_eligible": service.MoveEligible(b),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"page":        page.Number,
		"page_size":   page.Size,
		"total":       page.TotalItems,
		"total_pages": page.TotalPages,
	})
}

type inspectionUpdateRequest struct {
	InspectionStatus string   `json:"inspection_status" validate:"required,oneof=pending confirmed completed cancelled"`
	SiteVisit        string   `json:"site_visit" validate:"omitempty,oneof=pending completed not-completed"`
	BookingAmount    float64  `json:"booking_amount" validate:"gte=0"`
	Discount         float64  `json:"discount" validate:"gte=0"`
	Workers          []string `json:"workers"`
}

// @Summary Update an inspection
// @Description Writes the inspection edit upstream. The booking status mirrors the inspection status; pricing the record makes it eligible to move into bookings.
// @Tags inspections
// @Accept json
// @Produce json
// @Param id path int true "booking id"
// @Param body body inspectionUpdateRequest true "update"
// @Success 200 {object} map[string]any
// @Router /api/inspections/{id} [put]
func (h *Handler) InspectionUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req inspectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}
	if err := h.loadInspections(c); err != nil {
		return
	}
	b, found := h.Inspects.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "inspection not found", nil)
		return
	}

	updated, err := h.Workflow.ApplyInspectionUpdate(c.Request.Context(), b, service.InspectionUpdate{
		InspectionStatus: req.InspectionStatus,
		SiteVisit:        req.SiteVisit,
		BookingAmount:    req.BookingAmount,
		Discount:         req.Discount,
		Workers:          req.Workers,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "inspection update failed", err.Error())
		return
	}

	// A priced record no longer belongs to the inspection list.
	if updated.BaseAmount > 0 {
		h.Inspects.Remove(updated.ID)
	} else {
		h.Inspects.Update(updated)
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":       updated,
		"move_eligible": service.MoveEligible(updated),
	})
}

// @Summary Move an inspection into bookings
// @Description Graduates a confirmed, priced inspection into the regular booking list.
// @Tags inspections
// @Produce json
// @Param id path int true "booking id"
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/inspections/{id}/move [post]
func (h *Handler) InspectionMove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.loadInspections(c); err != nil {
		return
	}
	b, found := h.Inspects.Get(id)
	if !found {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "inspection not found", nil)
		return
	}
	if !service.MoveEligible(b) {
		writeError(c, http.StatusConflict, "INVALID_STATE", "inspection must be confirmed and priced before moving", gin.H{
			"inspection_status": b.InspectionStatus,
			"booking_amount":    b.BaseAmount,
		})
		return
	}

	h.Inspects.Remove(id)
	if !h.Bookings.Empty() {
		h.Bookings.Upsert(b)
	}
	c.JSON(http.StatusOK, gin.H{"status": "moved", "booking_id": id})
}

func (h *Handler) loadInspections(c *gin.Context) error {
	if !wantsRefresh(c) && !h.Inspects.Empty() {
		return nil
	}
	raws, err := h.Upstream.ListInspections(c.Request.Context(), c.Query("inspection_status"))
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch inspections", err.Error())
		return err
	}
	records := service.NormalizeBookings(raws)
	unpriced := make([]models.Booking, 0, len(records))
	for _, b := range records {
		if b.BaseAmount == 0 {
			unpriced = append(unpriced, b)
		}
	}
	h.Inspects.SetRecords(unpriced)
	return nil
}
