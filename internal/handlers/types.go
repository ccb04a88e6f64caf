package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ems_portal/internal/services"
	"ems_portal/internal/validation"
	"ems_portal/web/templates/pages"
)

// Page-level messages shown above forms
const (
	msgGenericError       = "An error occurred. Please try again."
	msgRegistrationError  = "An error occurred during registration. Please try again."
	msgRegistrationFix    = "Please fix the highlighted errors before submitting."
	msgNoUsers            = "No users found. Please register first."
	msgInvalidCredentials = "Invalid User ID or password."
	msgSelectBill         = "Please select at least one bill to proceed."
	msgNoBillsSelected    = "No bills selected for payment. Please select bills first."
	msgNoPaymentInfo      = "No payment information found. Please select bills and proceed again."
	msgCardFix            = "Please correct the highlighted card details."
	msgPaymentSuccess     = "Payment processed successfully."
	msgComplaintFix       = "Please correct the highlighted fields."
	msgComplaintSuccess   = "Complaint Registered Successfully."
	msgInFlight           = "Your previous request is still being processed."
	msgForgotPassword     = "For demo purposes, password recovery is not implemented. Please register a new account if needed."

	msgConfirmLogout    = "Are you sure you want to logout?"
	msgConfirmPayment   = "You are about to pay ₹%s. Do you want to proceed with the payment?"
	msgConfirmComplaint = "Do you want to submit this complaint? Our team will contact you shortly."
)

// fieldErrors extracts inline messages from a validation failure
func fieldErrors(err error) (pages.Errors, bool) {
	errs, ok := validation.AsErrors(err)
	if !ok {
		return nil, false
	}
	return pages.Errors(errs.Map()), true
}

// firstFieldError returns the message of the first failing field
func firstFieldError(err error) string {
	errs, ok := validation.AsErrors(err)
	if !ok || errs.Len() == 0 {
		return ""
	}
	return errs.Get(errs.Fields()[0])
}

// inFlight turns a rejected duplicate submission into a 409
func inFlight(err error) error {
	if errors.Is(err, services.ErrSubmissionInFlight) {
		return echo.NewHTTPError(http.StatusConflict, msgInFlight)
	}
	return nil
}

// formFields replays submitted values through the confirmation step
func formFields(c echo.Context, names ...string) []pages.HiddenField {
	fields := make([]pages.HiddenField, 0, len(names))
	for _, name := range names {
		fields = append(fields, pages.HiddenField{Name: name, Value: c.FormValue(name)})
	}
	return fields
}

func isConfirmed(c echo.Context) bool {
	return c.FormValue("confirmed") == "yes"
}
