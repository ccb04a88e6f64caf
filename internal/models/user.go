package models

// Mobile is a phone number split into its country code and 10-digit number
type Mobile struct {
	Code   string `json:"code"`
	Number string `json:"number"`
}

// User represents a registered portal customer.
// Records are created at registration and never changed afterwards.
type User struct {
	CustomerID string `json:"customerId"`
	ConsumerID string `json:"consumerId"`
	BillNumber string `json:"billNumber"`
	Title      string `json:"title"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     Mobile `json:"mobile"`
	UserID     string `json:"userId"`
	Password   string `json:"password"`
}

// DisplayName is the salutation shown in page headers
func (u User) DisplayName() string {
	if u.Title == "" {
		return u.Name
	}
	return u.Title + " " + u.Name
}

// Session tracks the logged in user of one browser context
type Session struct {
	UserID     string `json:"userId"`
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

// DefaultCountryCode is used when the registration form leaves the code empty
const DefaultCountryCode = "+91"

// Titles offered on the registration form
var Titles = []string{"Mr.", "Mrs.", "Ms.", "Dr."}
