package models

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusApplied            Status = "Applied"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusInterviewed        Status = "Interviewed"
	StatusOffer              Status = "Offer"
	StatusRejected           Status = "Rejected"

	// StatusUnknown is the distribution bucket for records with no status.
	StatusUnknown Status = "Unknown"
)

func KnownStatuses() []Status {
	return []Status{
		StatusApplied,
		StatusInterviewScheduled,
		StatusInterviewed,
		StatusOffer,
		StatusRejected,
	}
}

// DateLayout is the wire format for applied_date. Dates stay strings so that
// "not later than today" is a plain lexicographic comparison.
const DateLayout = "2006-01-02"

// Today returns the current UTC calendar date in DateLayout.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// Application is one job-application record. The id is assigned by the
// remote store on insert; owner_id is stamped once at creation.
type Application struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CompanyName string    `json:"company_name"`
	JobTitle    string    `json:"job_title"`
	Status      Status    `json:"status"`
	JobURL      string    `json:"job_url"`
	SalaryRange string    `json:"salary_range"`
	Location    string    `json:"location"`
	AppliedDate string    `json:"applied_date"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Draft is a candidate payload for create/update: everything the user can
// type into the form, with the defaults the form starts from.
type Draft struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Status      Status `json:"status"`
	JobURL      string `json:"job_url"`
	SalaryRange string `json:"salary_range"`
	Location    string `json:"location"`
	AppliedDate string `json:"applied_date"`
	Notes       string `json:"notes"`
}

// NewDraft returns the empty-form payload: status Applied, applied today.
func NewDraft() Draft {
	return Draft{
		Status:      StatusApplied,
		AppliedDate: Today(),
	}
}

// ApplicationList is the cacheable shape of an owner's record list.
type ApplicationList []Application

func (l ApplicationList) MarshalBinary() ([]byte, error) {
	return json.Marshal(l)
}

func (l *ApplicationList) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}
