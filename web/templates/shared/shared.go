package shared

// Breadcrumb represents a navigation trail entry. The current page has no URL.
type Breadcrumb struct {
	Title string
	URL   string
}

// Flash kinds
const (
	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// Flash is the page-level message shown above a form
type Flash struct {
	Kind string
	Text string
}

func ErrorFlash(text string) *Flash   { return &Flash{Kind: FlashError, Text: text} }
func SuccessFlash(text string) *Flash { return &Flash{Kind: FlashSuccess, Text: text} }

// Crumbs builds a trail starting at Home
func Crumbs(trail ...Breadcrumb) []Breadcrumb {
	return append([]Breadcrumb{{Title: "Home", URL: "/home"}}, trail...)
}
