package derive

import (
	"math"
	"strings"

	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

type Stats struct {
	Total             int `json:"total"`
	InterviewsSecured int `json:"interviews_secured"`
	PendingResponses  int `json:"pending_responses"`
	SuccessRate       int `json:"success_rate"`
}

// ComputeStats reduces the record list to the summary counters. A record
// counts as an interview secured when its status mentions "Interview" (both
// scheduled and held) or is an offer; pending means still plain Applied.
func ComputeStats(apps []models.Application) Stats {
	stats := Stats{Total: len(apps)}
	for _, app := range apps {
		if strings.Contains(string(app.Status), "Interview") || app.Status == models.StatusOffer {
			stats.InterviewsSecured++
		}
		if app.Status == models.StatusApplied {
			stats.PendingResponses++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.InterviewsSecured) / float64(stats.Total) * 100))
	}
	return stats
}
