package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"ems_portal/internal/services"
	"ems_portal/web/templates/pages"
	"ems_portal/web/templates/shared"
)

// dashboardLimit caps the rows shown in each dashboard panel
const dashboardLimit = 5

// DashboardHandler handles the home page
type DashboardHandler struct {
	billing    *services.BillingService
	complaints *services.ComplaintService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(billing *services.BillingService, complaints *services.ComplaintService) *DashboardHandler {
	return &DashboardHandler{billing: billing, complaints: complaints}
}

// Home renders outstanding bills and recent complaints
func (h *DashboardHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	bills, err := h.billing.Overview(ctx, dashboardLimit)
	if err != nil {
		return err
	}
	recent, err := h.complaints.Recent(ctx, dashboardLimit)
	if err != nil {
		return err
	}

	props := pages.HomeProps{
		Base: pages.Base{
			Title:       "Home",
			ActiveNav:   "home",
			Breadcrumbs: shared.Crumbs(),
			UserID:      getStringFromContext(c, "userID"),
		},
		Bills:      bills,
		Complaints: recent,
		WindowDays: services.RecentWindowDays,
	}
	return renderPage(c, http.StatusOK, pages.HomePage(props))
}

// renderPage writes component with the given status
func renderPage(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}
