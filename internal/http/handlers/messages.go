package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/upstream"
)

// @Summary List contact requests
// @Description Messages sent through the public contact form, served as the upstream sends them.
// @Tags messages
// @Produce json
// @Param tab query string false "all, read or unread" default(all)
// @Success 200 {array} map[string]any
// @Router /api/messages [get]
func (h *Handler) MessagesList(c *gin.Context) {
	tab := strings.ToLower(strings.TrimSpace(c.DefaultQuery("tab", "all")))
	switch tab {
	case "all", "read", "unread":
	default:
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "tab must be all, read or unread", nil)
		return
	}
	filter := tab
	if filter == "all" {
		filter = ""
	}
	h.passthrough(c, func() (json.RawMessage, error) {
		return h.Upstream.ListContacts(c.Request.Context(), filter)
	})
}

// @Summary Mark a contact request read
// @Tags messages
// @Produce json
// @Param id path int true "contact id"
// @Success 200 {object} map[string]any
// @Router /api/messages/{id}/read [put]
func (h *Handler) MessageMarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Upstream.MarkContactRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "contact not found", nil)
			return
		}
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "mark read failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact_id": id, "read": true})
}
