package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ems_portal/internal/middleware"
	"ems_portal/internal/models"
	"ems_portal/internal/services"
	"ems_portal/web/templates/pages"
	"ems_portal/web/templates/shared"
)

// ComplaintHandler handles complaint registration and the status view
type ComplaintHandler struct {
	complaints *services.ComplaintService
	log        zerolog.Logger
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(complaints *services.ComplaintService, log zerolog.Logger) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, log: log}
}

func (h *ComplaintHandler) formProps(c echo.Context, form services.ComplaintForm) pages.ComplaintFormProps {
	return pages.ComplaintFormProps{
		Base: pages.Base{
			Title:       "Register Complaint",
			ActiveNav:   "complaint_new",
			Breadcrumbs: shared.Crumbs(shared.Breadcrumb{Title: "Register Complaint"}),
			UserID:      getStringFromContext(c, "userID"),
		},
		Form:       form,
		Types:      models.ComplaintTypes,
		Categories: models.CategoriesFor(form.Type),
	}
}

// NewComplaintPage renders the complaint form
func (h *ComplaintHandler) NewComplaintPage(c echo.Context) error {
	form := services.ComplaintForm{Type: c.QueryParam("type")}
	return renderPage(c, http.StatusOK, pages.ComplaintFormPage(h.formProps(c, form)))
}

var complaintFields = []string{
	"complaintType", "complaintCategory", "contactPerson", "landmark",
	"consumerNo", "mobile", "address", "description",
}

// SubmitComplaint validates, confirms and records a complaint
func (h *ComplaintHandler) SubmitComplaint(c echo.Context) error {
	var form services.ComplaintForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	complaint, err := h.complaints.Submit(c.Request().Context(), middleware.SessionFrom(c), form, isConfirmed(c))
	if err == nil {
		props := h.formProps(c, services.ComplaintForm{})
		props.Registered = complaint
		props.Flash = shared.SuccessFlash(msgComplaintSuccess)
		return renderPage(c, http.StatusOK, pages.ComplaintFormPage(props))
	}
	if httpErr := inFlight(err); httpErr != nil {
		return httpErr
	}

	props := h.formProps(c, form.Trimmed())
	if errors.Is(err, services.ErrConfirmationRequired) {
		confirm := pages.ConfirmProps{
			Base:      props.Base,
			Message:   msgConfirmComplaint,
			Action:    "/complaints",
			Fields:    formFields(c, complaintFields...),
			CancelURL: "/complaints/new",
			Confirm:   "Submit Complaint",
		}
		confirm.Title = "Confirm Complaint"
		return renderPage(c, http.StatusOK, pages.ConfirmPage(confirm))
	}
	if errs, ok := fieldErrors(err); ok {
		props.Errors = errs
		props.Flash = shared.ErrorFlash(msgComplaintFix)
		return renderPage(c, http.StatusUnprocessableEntity, pages.ComplaintFormPage(props))
	}

	h.log.Error().Err(err).Msg("Complaint submission failed")
	props.Flash = shared.ErrorFlash(msgGenericError)
	return renderPage(c, http.StatusInternalServerError, pages.ComplaintFormPage(props))
}

type categoriesResponse struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
}

// Categories returns the categories of the requested complaint type
func (h *ComplaintHandler) Categories(c echo.Context) error {
	t := c.QueryParam("type")
	categories := models.CategoriesFor(t)
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categoriesResponse{Type: t, Categories: categories})
}

func (h *ComplaintHandler) renderStatus(c echo.Context, selected *models.Complaint) error {
	filter := services.StatusFilter{
		Status: c.QueryParam("status"),
		Query:  strings.TrimSpace(c.QueryParam("q")),
	}
	if filter.Status == "" {
		filter.Status = services.StatusAll
	}

	list, err := h.complaints.List(c.Request().Context(), getStringFromContext(c, "userID"), filter)
	if err != nil {
		return err
	}

	trail := []shared.Breadcrumb{{Title: "Complaint Status", URL: "/complaints"}}
	if selected != nil {
		trail = append(trail, shared.Breadcrumb{Title: selected.ID})
	} else {
		trail[0].URL = ""
	}

	props := pages.ComplaintStatusProps{
		Base: pages.Base{
			Title:       "Complaint Status",
			ActiveNav:   "complaint_status",
			Breadcrumbs: shared.Crumbs(trail...),
			UserID:      getStringFromContext(c, "userID"),
		},
		Complaints: list,
		Statuses:   models.ComplaintStatuses,
		Status:     filter.Status,
		Query:      filter.Query,
		Selected:   selected,
	}
	return renderPage(c, http.StatusOK, pages.ComplaintStatusPage(props))
}

// StatusPage lists the user's complaints, filtered by status and search text
func (h *ComplaintHandler) StatusPage(c echo.Context) error {
	return h.renderStatus(c, nil)
}

// ComplaintDetail shows the status list with one of the user's complaints expanded
func (h *ComplaintHandler) ComplaintDetail(c echo.Context) error {
	complaint, err := h.complaints.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrComplaintNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Complaint not found.")
	}
	if err != nil {
		return err
	}
	if userID := getStringFromContext(c, "userID"); userID != "" && complaint.UserID != userID {
		return echo.NewHTTPError(http.StatusNotFound, "Complaint not found.")
	}
	return h.renderStatus(c, complaint)
}
