// Package derive holds the pure views computed from a record list: the
// filtered list, the chart series, and the summary stats. Nothing here
// mutates its input; callers recompute whenever the list changes.
package derive

import (
	"strings"

	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

// Filter returns the records matching the free-text query (case-insensitive
// substring of company name or job title) and the status filter (empty
// status matches everything). Input order is preserved.
func Filter(apps []models.Application, query string, status models.Status) []models.Application {
	q := strings.ToLower(query)
	matched := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		matchesSearch := strings.Contains(strings.ToLower(app.CompanyName), q) ||
			strings.Contains(strings.ToLower(app.JobTitle), q)
		matchesStatus := status == "" || app.Status == status
		if matchesSearch && matchesStatus {
			matched = append(matched, app)
		}
	}
	return matched
}
