package tracker

import (
	"context"

	"github.com/CesarValbuena2725/JobTrackr/internal/derive"
	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

// Snapshot bundles every derived view over one fetch of the record list, so
// the list, charts, and stats can never disagree about which records exist.
type Snapshot struct {
	Records      []models.Application
	Filtered     []models.Application
	Timeline     []derive.WeekPoint
	Distribution []derive.StatusCount
	Stats        derive.Stats
}

func (t *Tracker) Snapshot(ctx context.Context, ownerID, query string, status models.Status) (*Snapshot, error) {
	records, err := t.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Records:      records,
		Filtered:     derive.Filter(records, query, status),
		Timeline:     derive.WeeklyTimeline(records),
		Distribution: derive.StatusDistribution(records),
		Stats:        derive.ComputeStats(records),
	}, nil
}
