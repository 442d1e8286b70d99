package validate

import (
	"strings"

	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

// Draft checks a candidate payload against the submission rules, in order,
// and stops at the first violation. today is the current calendar date in
// models.DateLayout; dates compare lexicographically.
func Draft(d models.Draft, today string) error {
	if strings.TrimSpace(d.CompanyName) == "" {
		return errors.Validation("Company name is required")
	}
	if strings.TrimSpace(d.JobTitle) == "" {
		return errors.Validation("Job title is required")
	}
	if d.AppliedDate == "" {
		return errors.Validation("Applied date is required")
	}
	if strings.TrimSpace(d.JobURL) == "" {
		return errors.Validation("Job URL required")
	}
	if strings.TrimSpace(d.Location) == "" {
		return errors.Validation("Location required")
	}
	if d.AppliedDate > today {
		return errors.Validation("Applied date cannot be in the future")
	}
	// The link helpers prepend https:// for display, but validation does not
	// auto-correct: a bare host is rejected here.
	if !strings.HasPrefix(d.JobURL, "http") {
		return errors.Validation("Invalid URL")
	}
	return nil
}

// DraftNow is Draft against the current UTC date.
func DraftNow(d models.Draft) error {
	return Draft(d, models.Today())
}
