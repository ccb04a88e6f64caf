package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ems_portal/internal/middleware"
)

// Handlers groups every page handler of the portal
type Handlers struct {
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Billing    *BillingHandler
	Complaints *ComplaintHandler
	Health     *HealthHandler
}

// Register mounts the public routes and the session-guarded portal routes
func (h Handlers) Register(e *echo.Echo, sessions middleware.SessionReader) {
	// Public routes
	e.GET("/healthz", h.Health.Health)
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.HandleLogin)
	e.GET("/register", h.Auth.RegisterPage)
	e.POST("/register", h.Auth.HandleRegister)
	e.GET("/register/password-strength", h.Auth.PasswordStrength)

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireSession(sessions))
	protected.POST("/logout", h.Auth.HandleLogout)
	protected.GET("/home", h.Dashboard.Home)

	// Billing routes
	protected.GET("/bills", h.Billing.BillsPage)
	protected.POST("/bills/selection-summary", h.Billing.SelectionSummary)
	protected.POST("/bills/select", h.Billing.SelectBills)
	protected.GET("/payment", h.Billing.PaymentPage)
	protected.POST("/payment", h.Billing.ChooseMode)
	protected.GET("/payment/card", h.Billing.CardPage)
	protected.POST("/payment/card", h.Billing.Pay)
	protected.GET("/receipts/:txn/download", h.Billing.DownloadReceipt)
	protected.GET("/receipts/:txn/print", h.Billing.PrintReceipt)

	// Complaint routes
	protected.GET("/complaints/new", h.Complaints.NewComplaintPage)
	protected.POST("/complaints", h.Complaints.SubmitComplaint)
	protected.GET("/complaints/categories", h.Complaints.Categories)
	protected.GET("/complaints", h.Complaints.StatusPage)
	protected.GET("/complaints/:id", h.Complaints.ComplaintDetail)

	// Registered after the group so the group's catch-all never shadows it
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/home")
	})
}
