package derive

import (
	"sort"
	"time"

	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

type WeekPoint struct {
	WeekStart string `json:"week"`
	Count     int    `json:"count"`
}

type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int           `json:"count"`
}

// WeeklyTimeline groups records by the Sunday that starts the week of their
// applied_date and returns one point per distinct week, ascending by week
// start. Records without a parseable applied_date are skipped.
func WeeklyTimeline(apps []models.Application) []WeekPoint {
	byWeek := make(map[string]int)
	for _, app := range apps {
		if app.AppliedDate == "" {
			continue
		}
		date, err := time.Parse(models.DateLayout, app.AppliedDate)
		if err != nil {
			continue
		}
		weekStart := date.AddDate(0, 0, -int(date.Weekday()))
		byWeek[weekStart.Format(models.DateLayout)]++
	}

	points := make([]WeekPoint, 0, len(byWeek))
	for week, count := range byWeek {
		points = append(points, WeekPoint{WeekStart: week, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].WeekStart < points[j].WeekStart
	})
	return points
}

// StatusDistribution counts records per status, descending by count. Records
// with no status land in the Unknown bucket; ties keep first-encounter order.
func StatusDistribution(apps []models.Application) []StatusCount {
	counts := make(map[models.Status]int)
	order := make([]models.Status, 0, len(apps))
	for _, app := range apps {
		status := app.Status
		if status == "" {
			status = models.StatusUnknown
		}
		if _, seen := counts[status]; !seen {
			order = append(order, status)
		}
		counts[status]++
	}

	dist := make([]StatusCount, 0, len(order))
	for _, status := range order {
		dist = append(dist, StatusCount{Status: status, Count: counts[status]})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist
}
