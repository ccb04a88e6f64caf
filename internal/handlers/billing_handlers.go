package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ems_portal/internal/middleware"
	"ems_portal/internal/models"
	"ems_portal/internal/services"
	"ems_portal/web/templates/pages"
	"ems_portal/web/templates/shared"
)

// BillingHandler handles bill selection, payment and receipts
type BillingHandler struct {
	billing *services.BillingService
	log     zerolog.Logger
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billing *services.BillingService, log zerolog.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, log: log}
}

func (h *BillingHandler) base(c echo.Context, title string, trail ...shared.Breadcrumb) pages.Base {
	return pages.Base{
		Title:       title,
		ActiveNav:   "bills",
		Breadcrumbs: shared.Crumbs(trail...),
		UserID:      getStringFromContext(c, "userID"),
	}
}

// selection reads the checked bills and the select-all toggle
func selection(c echo.Context) ([]string, bool, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, false, echo.NewHTTPError(http.StatusBadRequest, "The request could not be processed.")
	}
	return params["bills"], params.Get("selectAll") == "on", nil
}

func (h *BillingHandler) renderBills(c echo.Context, status int, selected []string, flash *shared.Flash) error {
	bills, err := h.billing.ListUnpaid(c.Request().Context())
	if err != nil {
		return err
	}
	props := pages.PayBillProps{
		Base:     h.base(c, "Pay Bill", shared.Breadcrumb{Title: "Pay Bill"}),
		Bills:    bills,
		Selected: selected,
		Summary:  services.Summarize(bills, selected),
	}
	props.Flash = flash
	return renderPage(c, status, pages.PayBillPage(props))
}

// BillsPage lists the unpaid bills
func (h *BillingHandler) BillsPage(c echo.Context) error {
	return h.renderBills(c, http.StatusOK, nil, nil)
}

// SelectionSummary returns the running count and total of the checked bills
func (h *BillingHandler) SelectionSummary(c echo.Context) error {
	ids, selectAll, err := selection(c)
	if err != nil {
		return err
	}
	summary, err := h.billing.SummarizeSelection(c.Request().Context(), ids, selectAll)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// SelectBills stores the selection and moves on to the payment summary
func (h *BillingHandler) SelectBills(c echo.Context) error {
	ids, selectAll, err := selection(c)
	if err != nil {
		return err
	}
	_, err = h.billing.Select(c.Request().Context(), ids, selectAll)
	if errors.Is(err, services.ErrNoBillsSelected) {
		return h.renderBills(c, http.StatusUnprocessableEntity, nil, shared.ErrorFlash(msgSelectBill))
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/payment")
}

func (h *BillingHandler) summaryProps(c echo.Context) pages.PaymentSummaryProps {
	return pages.PaymentSummaryProps{
		Base:  h.base(c, "Payment Summary", shared.Breadcrumb{Title: "Pay Bill", URL: "/bills"}, shared.Breadcrumb{Title: "Payment Summary"}),
		Modes: models.PaymentModes,
		Mode:  models.PaymentModeDebitCard,
	}
}

// PaymentPage shows the bill amount, gateway charge and payment modes
func (h *BillingHandler) PaymentPage(c echo.Context) error {
	props := h.summaryProps(c)
	pc, charges, err := h.billing.Summary(c.Request().Context())
	if errors.Is(err, services.ErrNoPaymentContext) {
		props.Flash = shared.ErrorFlash(msgNoBillsSelected)
		return renderPage(c, http.StatusOK, pages.PaymentSummaryPage(props))
	}
	if err != nil {
		return err
	}

	props.Context = pc
	props.Charges = charges
	if pc.PaymentMode != "" {
		props.Mode = pc.PaymentMode
	}
	return renderPage(c, http.StatusOK, pages.PaymentSummaryPage(props))
}

// ChooseMode records the payment mode and moves on to card entry
func (h *BillingHandler) ChooseMode(c echo.Context) error {
	_, err := h.billing.ChooseMode(c.Request().Context(), c.FormValue("paymentMode"))
	switch {
	case errors.Is(err, services.ErrInvalidPaymentMode):
		return echo.NewHTTPError(http.StatusBadRequest, "Please choose a supported payment mode.")
	case errors.Is(err, services.ErrNoPaymentContext):
		props := h.summaryProps(c)
		props.Flash = shared.ErrorFlash(msgNoBillsSelected)
		return renderPage(c, http.StatusUnprocessableEntity, pages.PaymentSummaryPage(props))
	case err != nil:
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/payment/card")
}

func (h *BillingHandler) cardProps(c echo.Context) pages.CardDetailsProps {
	return pages.CardDetailsProps{
		Base: h.base(c, "Card Details",
			shared.Breadcrumb{Title: "Pay Bill", URL: "/bills"},
			shared.Breadcrumb{Title: "Payment Summary", URL: "/payment"},
			shared.Breadcrumb{Title: "Card Details"},
		),
	}
}

// CardPage renders the card form for the pending payment
func (h *BillingHandler) CardPage(c echo.Context) error {
	props := h.cardProps(c)
	pc, err := h.billing.PendingPayment(c.Request().Context())
	if errors.Is(err, services.ErrPaymentIncomplete) {
		props.Flash = shared.ErrorFlash(msgNoPaymentInfo)
		return renderPage(c, http.StatusOK, pages.CardDetailsPage(props))
	}
	if err != nil {
		return err
	}
	props.Context = pc
	return renderPage(c, http.StatusOK, pages.CardDetailsPage(props))
}

var cardFields = []string{"cardNumber", "cardHolderName", "expiryDate", "cvv"}

// Pay validates the card, confirms the amount and commits the payment
func (h *BillingHandler) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	var form services.CardForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	props := h.cardProps(c)
	pc, err := h.billing.PendingPayment(ctx)
	if errors.Is(err, services.ErrPaymentIncomplete) {
		props.Flash = shared.ErrorFlash(msgNoPaymentInfo)
		return renderPage(c, http.StatusUnprocessableEntity, pages.CardDetailsPage(props))
	}
	if err != nil {
		return err
	}
	props.Context = pc

	receipt, err := h.billing.Pay(ctx, middleware.SessionFrom(c), form, isConfirmed(c))
	if err == nil {
		props.Context = nil
		props.Receipt = receipt
		props.Flash = shared.SuccessFlash(msgPaymentSuccess)
		return renderPage(c, http.StatusOK, pages.CardDetailsPage(props))
	}
	if httpErr := inFlight(err); httpErr != nil {
		return httpErr
	}

	if errors.Is(err, services.ErrConfirmationRequired) {
		confirm := pages.ConfirmProps{
			Base:      props.Base,
			Message:   fmt.Sprintf(msgConfirmPayment, pc.TotalAmount.StringFixed(2)),
			Action:    "/payment/card",
			Fields:    formFields(c, cardFields...),
			CancelURL: "/payment/card",
			Confirm:   "Pay Now",
		}
		confirm.Title = "Confirm Payment"
		return renderPage(c, http.StatusOK, pages.ConfirmPage(confirm))
	}

	// Card details are re-shown without the CVV
	props.Form = form.Normalized()
	props.Form.CVV = ""
	if errs, ok := fieldErrors(err); ok {
		props.Errors = errs
		props.Flash = shared.ErrorFlash(msgCardFix)
		return renderPage(c, http.StatusUnprocessableEntity, pages.CardDetailsPage(props))
	}

	h.log.Error().Err(err).Msg("Payment failed")
	props.Flash = shared.ErrorFlash(msgGenericError)
	return renderPage(c, http.StatusInternalServerError, pages.CardDetailsPage(props))
}

// receiptFor returns the receipt only to the user who paid it
func (h *BillingHandler) receiptFor(c echo.Context) (*models.Receipt, error) {
	receipt, err := h.billing.Receipt(c.Request().Context(), c.Param("txn"))
	if errors.Is(err, services.ErrReceiptNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Receipt not found.")
	}
	if err != nil {
		return nil, err
	}
	if receipt.UserID != getStringFromContext(c, "userID") {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Receipt not found.")
	}
	return receipt, nil
}

// DownloadReceipt serves the receipt as an HTML attachment
func (h *BillingHandler) DownloadReceipt(c echo.Context) error {
	receipt, err := h.receiptFor(c)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "receipt-"+receipt.TransactionID+".html"))
	return renderPage(c, http.StatusOK, pages.ReceiptDocument(pages.ReceiptProps{Receipt: *receipt}))
}

// PrintReceipt serves the receipt inline and opens the print dialog
func (h *BillingHandler) PrintReceipt(c echo.Context) error {
	receipt, err := h.receiptFor(c)
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, pages.ReceiptDocument(pages.ReceiptProps{Receipt: *receipt, Print: true}))
}
