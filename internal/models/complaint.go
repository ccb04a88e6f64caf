package models

import (
	"time"
)

// ComplaintStatus represents the tracking state of a complaint
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// ComplaintStatuses are offered by the status filter. New complaints are always Pending.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
}

// Complaint is a customer-registered grievance
type Complaint struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	ContactPerson string          `json:"contactPerson"`
	Landmark      string          `json:"landmark"`
	ConsumerNo    string          `json:"consumerNo"`
	Mobile        string          `json:"mobile"`
	Address       string          `json:"address"`
	Description   string          `json:"description"`
	Status        ComplaintStatus `json:"status"`
	Date          time.Time       `json:"date"`
}

// ComplaintType groups the categories a complaint may be filed under
type ComplaintType struct {
	Name       string
	Categories []string
}

// ComplaintTypes is the fixed complaint taxonomy in display order
var ComplaintTypes = []ComplaintType{
	{Name: "Billing Related", Categories: []string{"Wrong Reading", "Overcharge", "Payment Not Reflected", "Tariff Issue"}},
	{Name: "Voltage Related", Categories: []string{"Low Voltage", "High Voltage", "Fluctuation"}},
	{Name: "Frequent Disruption", Categories: []string{"Unscheduled Outage", "Scheduled Outage Information"}},
	{Name: "Street Light Related", Categories: []string{"Street Light Not Working", "Street Light Flickering"}},
	{Name: "Pole Related", Categories: []string{"Damaged Pole", "Leaning Pole"}},
	{Name: "Meter Issue", Categories: []string{"Meter Not Working", "Meter Burnt", "Meter Reading Doubt"}},
	{Name: "New Connection", Categories: []string{"New Domestic Connection", "New Commercial Connection"}},
	{Name: "Other", Categories: []string{"General Query", "Other"}},
}

// CategoriesFor returns the categories of a complaint type, or nil for unknown types
func CategoriesFor(typeName string) []string {
	for _, t := range ComplaintTypes {
		if t.Name == typeName {
			return t.Categories
		}
	}
	return nil
}

// IsValidCategory reports whether category belongs to the given type
func IsValidCategory(typeName, category string) bool {
	for _, c := range CategoriesFor(typeName) {
		if c == category {
			return true
		}
	}
	return false
}
