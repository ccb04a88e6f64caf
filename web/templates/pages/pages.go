package pages

import (
	"github.com/a-h/templ"

	"ems_portal/internal/models"
	"ems_portal/internal/services"
	"ems_portal/web/templates/shared"
)

// Base carries the layout fields every page shares
type Base struct {
	Title       string
	ActiveNav   string
	Breadcrumbs []shared.Breadcrumb
	// UserID is empty on public pages
	UserID string
	Flash  *shared.Flash
}

// Errors maps form fields to their inline message
type Errors map[string]string

type LoginPageProps struct {
	Base
	Form   services.LoginForm
	Notice string
}

func LoginPage(props LoginPageProps) templ.Component {
	return render("login.html", props)
}

type RegisterPageProps struct {
	Base
	Form         services.RegistrationForm
	Errors       Errors
	Titles       []string
	Strength     string
	Registered   *models.User
	CountryCodes []string
}

func RegisterPage(props RegisterPageProps) templ.Component {
	return render("register.html", props)
}

type HomeProps struct {
	Base
	Bills      services.BillsOverview
	Complaints services.RecentComplaints
	WindowDays int
}

func HomePage(props HomeProps) templ.Component {
	return render("home.html", props)
}

type PayBillProps struct {
	Base
	Bills    []models.Bill
	Selected []string
	Summary  services.SelectionSummary
}

func PayBillPage(props PayBillProps) templ.Component {
	return render("pay_bill.html", props)
}

type PaymentSummaryProps struct {
	Base
	Context *models.PaymentContext
	Charges services.Charges
	Modes   []models.PaymentMode
	Mode    models.PaymentMode
}

func PaymentSummaryPage(props PaymentSummaryProps) templ.Component {
	return render("payment_summary.html", props)
}

type CardDetailsProps struct {
	Base
	Context *models.PaymentContext
	Form    services.CardForm
	Errors  Errors
	Receipt *models.Receipt
}

func CardDetailsPage(props CardDetailsProps) templ.Component {
	return render("card_details.html", props)
}

type ComplaintFormProps struct {
	Base
	Form       services.ComplaintForm
	Errors     Errors
	Types      []models.ComplaintType
	Categories []string
	Registered *models.Complaint
}

func ComplaintFormPage(props ComplaintFormProps) templ.Component {
	return render("complaint_form.html", props)
}

type ComplaintStatusProps struct {
	Base
	Complaints []models.Complaint
	Statuses   []models.ComplaintStatus
	Status     string
	Query      string
	Selected   *models.Complaint
}

func ComplaintStatusPage(props ComplaintStatusProps) templ.Component {
	return render("complaint_status.html", props)
}

// HiddenField is replayed by the confirmation form
type HiddenField struct {
	Name  string
	Value string
}

// ConfirmProps drives the confirmation step that precedes a commit
type ConfirmProps struct {
	Base
	Message   string
	Action    string
	Fields    []HiddenField
	CancelURL string
	Confirm   string
}

func ConfirmPage(props ConfirmProps) templ.Component {
	return render("confirm.html", props)
}

type ErrorPageProps struct {
	Base
	ErrorTitle   string
	ErrorMessage string
	BackLink     string
	BackText     string
}

func ErrorPage(props ErrorPageProps) templ.Component {
	return render("error.html", props)
}

// ReceiptProps renders the standalone receipt document
type ReceiptProps struct {
	Receipt models.Receipt
	Print   bool
}

func ReceiptDocument(props ReceiptProps) templ.Component {
	return render("receipt.html", props)
}
