package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushiservices/admin-backend/internal/service"
)

// @Summary List customers
// @Description Paginated customer directory, served as the upstream sends it.
// @Tags customers
// @Produce json
// @Param page query int false "page number"
// @Success 200 {object} map[string]any
// @Router /api/customers [get]
func (h *Handler) CustomersList(c *gin.Context) {
	raw, err := h.Upstream.ListCustomers(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch customers", err.Error())
		return
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "unexpected customers payload", err.Error())
		return
	}
	page := service.Paginate(records, queryPage(c), h.CustomersPageSize)
	c.JSON(http.StatusOK, page)
}

func (h *Handler) CustomerCreate(c *gin.Context) {
	h.proxyBody(c, func(body json.RawMessage) (json.RawMessage, error) {
		return h.Upstream.CreateCustomer(c.Request.Context(), body)
	})
}

func (h *Handler) CustomerUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.proxyBody(c, func(body json.RawMessage) (json.RawMessage, error) {
		return h.Upstream.UpdateCustomer(c.Request.Context(), id, body)
	})
}

func (h *Handler) CustomerDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Upstream.DeleteCustomer(c.Request.Context(), id); err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "delete failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "customer_id": id})
}

func (h *Handler) ServicesList(c *gin.Context) {
	h.passthrough(c, func() (json.RawMessage, error) { return h.Upstream.ListServices(c.Request.Context()) })
}

func (h *Handler) ServiceCreate(c *gin.Context) {
	h.proxyBody(c, func(body json.RawMessage) (json.RawMessage, error) {
		return h.Upstream.CreateService(c.Request.Context(), body)
	})
}

func (h *Handler) ServiceUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.proxyBody(c, func(body json.RawMessage) (json.RawMessage, error) {
		return h.Upstream.UpdateService(c.Request.Context(), id, body)
	})
}

func (h *Handler) ServiceDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Upstream.DeleteService(c.Request.Context(), id); err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "delete failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "service_id": id})
}

// proxyBody forwards a JSON body upstream unchanged and relays the
// response.
func (h *Handler) proxyBody(c *gin.Context, send func(json.RawMessage) (json.RawMessage, error)) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid json body", nil)
		return
	}
	out, err := send(body)
	if err != nil {
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream call failed", err.Error())
		return
	}
	if len(out) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}
