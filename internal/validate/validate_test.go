package validate

import (
	"testing"

	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

const today = "2024-03-15"

func validDraft() models.Draft {
	return models.Draft{
		CompanyName: "Acme Corp",
		JobTitle:    "Backend Engineer",
		Status:      models.StatusApplied,
		JobURL:      "https://acme.example/jobs/42",
		SalaryRange: "$100k-$120k",
		Location:    "Remote",
		AppliedDate: "2024-03-10",
	}
}

func TestValidDraftPasses(t *testing.T) {
	if err := Draft(validDraft(), today); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestFirstViolationWins(t *testing.T) {
	d := validDraft()
	d.CompanyName = "   "
	d.JobTitle = ""
	err := Draft(d, today)
	if err == nil {
		t.Fatal("expected validation error")
	}
	domainErr, ok := err.(*errors.DomainError)
	if !ok || domainErr.Type != errors.ErrTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domainErr.Message != "Company name is required" {
		t.Fatalf("expected company violation first, got %q", domainErr.Message)
	}
}

func TestRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Draft)
		message string
	}{
		{"company whitespace", func(d *models.Draft) { d.CompanyName = "  \t " }, "Company name is required"},
		{"title empty", func(d *models.Draft) { d.JobTitle = "" }, "Job title is required"},
		{"title whitespace", func(d *models.Draft) { d.JobTitle = "   " }, "Job title is required"},
		{"date missing", func(d *models.Draft) { d.AppliedDate = "" }, "Applied date is required"},
		{"url empty", func(d *models.Draft) { d.JobURL = " " }, "Job URL required"},
		{"location empty", func(d *models.Draft) { d.Location = "" }, "Location required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			err := Draft(d, today)
			if err == nil {
				t.Fatal("expected validation error")
			}
			domainErr := err.(*errors.DomainError)
			if domainErr.Message != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, domainErr.Message)
			}
		})
	}
}

func TestFutureDateRejected(t *testing.T) {
	d := validDraft()
	d.AppliedDate = "2024-03-16"
	err := Draft(d, today)
	if err == nil {
		t.Fatal("expected rejection of future date")
	}
	if err.(*errors.DomainError).Message != "Applied date cannot be in the future" {
		t.Fatalf("unexpected message: %v", err)
	}

	// Same-day submissions are fine.
	d.AppliedDate = today
	if err := Draft(d, today); err != nil {
		t.Fatalf("expected today to pass, got %v", err)
	}
}

func TestURLSchemeRequired(t *testing.T) {
	d := validDraft()
	d.JobURL = "acme.example/jobs/42"
	err := Draft(d, today)
	if err == nil {
		t.Fatal("expected rejection of schemeless URL")
	}
	if err.(*errors.DomainError).Message != "Invalid URL" {
		t.Fatalf("unexpected message: %v", err)
	}

	d.JobURL = "http://acme.example/jobs/42"
	if err := Draft(d, today); err != nil {
		t.Fatalf("expected http URL to pass, got %v", err)
	}
}

func TestSalaryAndNotesNotValidated(t *testing.T) {
	d := validDraft()
	d.SalaryRange = ""
	d.Notes = ""
	if err := Draft(d, today); err != nil {
		t.Fatalf("salary and notes are optional, got %v", err)
	}
}
