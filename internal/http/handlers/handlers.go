package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/kushiservices/admin-backend/internal/db"
	"github.com/kushiservices/admin-backend/internal/events"
	"github.com/kushiservices/admin-backend/internal/service"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

type Handler struct {
	Upstream  upstream.Client
	Store     *db.Store
	Bus       *events.Bus
	Feed      *service.ActivityFeed
	Workflow  *service.Workflow
	Bookings  *service.View
	Inspects  *service.View
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string

	PageSize          int
	CustomersPageSize int
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// timeNow anchors relative date filters; tests pin it.
var timeNow = time.Now

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid id", nil)
		return 0, false
	}
	return id, true
}

// criteriaFromQuery maps the list query parameters onto filter criteria.
// Date modes: all, today, yesterday, last7, month, range (+from/to),
// day (+day), custom-month (+month=YYYY-MM).
func criteriaFromQuery(c *gin.Context) (service.Criteria, error) {
	crit := service.Criteria{
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Search: c.Query("q"),
	}

	mode := service.DateMode(strings.ToLower(strings.TrimSpace(c.Query("date"))))
	if mode == "" {
		mode = service.DateAll
	}
	f := service.DateFilter{Mode: mode}

	switch mode {
	case service.DateAll, service.DateToday, service.DateYesterday, service.DateLast7, service.DateThisMonth:
	case service.DateRange:
		var err error
		if f.From, err = parseDay(c.Query("from")); err != nil {
			return crit, err
		}
		if f.To, err = parseDay(c.Query("to")); err != nil {
			return crit, err
		}
	case service.DateDay:
		var err error
		if f.Day, err = parseDay(c.Query("day")); err != nil {
			return crit, err
		}
	case service.DateMonth:
		t, err := time.Parse("2006-01", c.Query("month"))
		if err != nil {
			return crit, err
		}
		f.Year, f.Month = t.Year(), t.Month()
	default:
		f.Mode = service.DateAll
	}

	crit.Date = f
	return crit, nil
}

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func wantsRefresh(c *gin.Context) bool {
	v := c.Query("refresh")
	return v == "1" || v == "true"
}
