package models

import (
	"fmt"
	"time"
)

// LeadStatus is the triage state of a lead
type LeadStatus string

const (
	LeadStatusPending  LeadStatus = "PENDING"
	LeadStatusApproved LeadStatus = "APPROVED"
)

// DefaultLeadSource is assigned when a submission does not name its source
const DefaultLeadSource = "Website"

// Lead represents a customer contact/inquiry record
type Lead struct {
	ID             int64      `json:"id" db:"id"`
	FullName       string     `json:"full_name" db:"full_name"`
	Phone          string     `json:"phone" db:"phone"`
	Email          string     `json:"email" db:"email"`
	Budget         string     `json:"budget" db:"budget"`
	Location       string     `json:"location" db:"location"`
	PropertyType   string     `json:"property_type" db:"property_type"`
	Purpose        string     `json:"purpose" db:"purpose"`
	Temperature    string     `json:"temperature" db:"temperature"`
	AssignedClient string     `json:"assigned_client" db:"assigned_client"`
	Source         string     `json:"source" db:"source"`
	Status         LeadStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// LeadInput is the intake payload for a new lead. FullName and Phone are
// required; everything else is optional and defaults to empty.
type LeadInput struct {
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Budget         string `json:"budget"`
	Location       string `json:"location"`
	PropertyType   string `json:"property_type"`
	Purpose        string `json:"purpose"`
	Temperature    string `json:"temperature"`
	AssignedClient string `json:"assigned_client"`
	Source         string `json:"source"`
}

// ApproveLeadsRequest is the bulk approval payload
type ApproveLeadsRequest struct {
	IDs []int64 `json:"ids"`
}

// ToggleLeadRequest flips a single lead between PENDING and APPROVED
type ToggleLeadRequest struct {
	ID int64 `json:"id"`
}

// LeadFilter narrows a lead listing
type LeadFilter string

const (
	FilterAll      LeadFilter = "all"
	FilterToday    LeadFilter = "today"
	FilterWeek     LeadFilter = "week"
	FilterPending  LeadFilter = "pending"
	FilterApproved LeadFilter = "approved"
)

// ParseLeadFilter validates a filter string from the query layer
func ParseLeadFilter(s string) (LeadFilter, error) {
	switch LeadFilter(s) {
	case FilterAll, FilterToday, FilterWeek, FilterPending, FilterApproved:
		return LeadFilter(s), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown lead filter %q", s)
}

// LeadImportSummary reports the outcome of a CSV bulk import
type LeadImportSummary struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
