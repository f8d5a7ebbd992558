package router

import (
	"github.com/gin-gonic/gin"

	"facturas/internal/domain"
	"facturas/internal/handler"
	"facturas/internal/middleware"
	"facturas/internal/service"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Invoice  *handler.InvoiceHandler
	Supplier *handler.SupplierHandler
	Draft    *handler.DraftHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	invoices := protected.Group("/invoices")
	invoices.GET("", h.Invoice.List)
	invoices.POST("", h.Invoice.Create)
	invoices.GET("/export", h.Invoice.Export)
	invoices.POST("/calculate", h.Invoice.Calculate)
	invoices.POST("/process-image", h.Invoice.ProcessImage)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PATCH("/:id", h.Invoice.Update)
	invoices.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.Invoice.Delete)
	invoices.PATCH("/:id/mark-as-paid", h.Invoice.MarkPaid)
	invoices.PATCH("/:id/mark-as-prepared", h.Invoice.MarkPrepared)

	suppliers := protected.Group("/suppliers")
	suppliers.GET("", h.Supplier.List)
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("/:id", h.Supplier.GetByID)
	suppliers.PUT("/:id", h.Supplier.Update)
	suppliers.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.Supplier.Delete)

	drafts := protected.Group("/drafts")
	drafts.POST("", h.Draft.Create)
	drafts.GET("/:id", h.Draft.GetByID)
	drafts.PATCH("/:id", h.Draft.Update)
	drafts.DELETE("/:id", h.Draft.Delete)
	drafts.POST("/:id/validate", h.Draft.Validate)
	drafts.POST("/:id/submit", h.Draft.Submit)
	drafts.POST("/:id/extractions", h.Draft.StartExtraction)
	drafts.GET("/:id/extractions/:attemptId", h.Draft.GetExtraction)

	return r
}
