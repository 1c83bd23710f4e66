package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kushiservices/admin-backend/internal/config"
	"github.com/kushiservices/admin-backend/internal/db"
	"github.com/kushiservices/admin-backend/internal/events"
	"github.com/kushiservices/admin-backend/internal/http/handlers"
	"github.com/kushiservices/admin-backend/internal/http/middleware"
	"github.com/kushiservices/admin-backend/internal/service"
	"github.com/kushiservices/admin-backend/internal/upstream"

	_ "github.com/kushiservices/admin-backend/docs"
)

func Router(cfg config.Config, client upstream.Client, store *db.Store, bus *events.Bus, feed *service.ActivityFeed, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	workflow := &service.Workflow{
		Upstream: client,
		Bus:      bus,
		Logger:   logger,
	}
	if store != nil {
		workflow.Audit = store
	}

	h := &handlers.Handler{
		Upstream:          client,
		Store:             store,
		Bus:               bus,
		Feed:              feed,
		Workflow:          workflow,
		Bookings:          service.NewView(cfg.BookingsPageSize),
		Inspects:          service.NewView(cfg.BookingsPageSize),
		Validator:         validator.New(),
		Logger:            logger,
		AdminKey:          cfg.AdminKey,
		PageSize:          cfg.BookingsPageSize,
		CustomersPageSize: cfg.CustomersPageSize,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/bookings", h.BookingsList)
		api.GET("/bookings/:id", h.BookingDetails)
		api.GET("/inspections", h.InspectionsList)
		api.GET("/invoices", h.InvoicesList)
		api.GET("/invoices/:id/pdf", h.InvoicePDF)
		api.GET("/customers", h.CustomersList)
		api.GET("/services", h.ServicesList)
		api.GET("/messages", h.MessagesList)

		api.GET("/admin/overview", h.Overview)
		api.GET("/admin/dashboard-overview", h.DashboardOverview)
		api.GET("/admin/statistics", h.Statistics)
		api.GET("/admin/top-rated-services", h.TopRatedServices)
		api.GET("/admin/top-booked-customers", h.TopBookedCustomers)
		api.GET("/admin/revenue-by-service", h.RevenueByService)
		api.GET("/admin/recent-activities", h.RecentActivities)
		api.GET("/admin/events", h.Events)

		api.GET("/reports/revenue/csv", h.RevenueCSV)
		api.GET("/reports/service-report/csv", h.ServiceReportCSV)
		api.GET("/reports/invoices/csv", h.InvoicesCSV)
		api.GET("/reports/invoices/xlsx", h.InvoicesXLSX)
		api.GET("/reports/financial/pdf", h.FinancialPDF)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.PUT("/bookings/:id/update", h.BookingUpdate)
		admin.POST("/bookings/:id/workers", h.WorkersAssign)
		admin.DELETE("/bookings/:id/workers/:name", h.WorkerRemove)

		admin.PUT("/inspections/:id", h.InspectionUpdate)
		admin.POST("/inspections/:id/move", h.InspectionMove)

		admin.PUT("/invoices/:id/payment-status", h.InvoicePaymentStatus)

		admin.PUT("/messages/:id/read", h.MessageMarkRead)

		admin.POST("/customers", h.CustomerCreate)
		admin.PUT("/customers/:id", h.CustomerUpdate)
		admin.DELETE("/customers/:id", h.CustomerDelete)
		admin.POST("/services", h.ServiceCreate)
		admin.PUT("/services/:id", h.ServiceUpdate)
		admin.DELETE("/services/:id", h.ServiceDelete)

		admin.GET("/admin/workflow-runs/latest", h.WorkflowRunsLatest)
		admin.GET("/admin/debug/filters", h.DebugFilters)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
