// Package tracker is the record store: the one place that reads and mutates
// application records. Reads go through a cached owner-scoped list; every
// successful mutation invalidates that cache instead of patching it, so the
// next list always reflects server-assigned fields.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/analytics"
	"github.com/CesarValbuena2725/JobTrackr/internal/cache"
	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/models"
	"github.com/CesarValbuena2725/JobTrackr/internal/store"
	"github.com/CesarValbuena2725/JobTrackr/internal/telemetry"
	"github.com/CesarValbuena2725/JobTrackr/internal/validate"
)

type Tracker struct {
	repo     store.ApplicationRepository
	cache    cache.Cache
	activity analytics.Recorder
	ttl      time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer

	mu sync.Mutex
	// fetchGen increases on every fetch start and every mutation; a fetch
	// result may only populate the cache when its generation is still
	// current, so an in-flight stale fetch never overwrites a newer state.
	fetchGen uint64
}

func New(repo store.ApplicationRepository, listCache cache.Cache, activity analytics.Recorder, ttl time.Duration, logger *zap.Logger) *Tracker {
	return &Tracker{
		repo:     repo,
		cache:    listCache,
		activity: activity,
		ttl:      ttl,
		logger:   logger,
		tracer:   telemetry.GetTracer("jobtrackr/tracker"),
	}
}

func listKey(ownerID string) string {
	return "records:list:" + ownerID
}

// List returns all records owned by ownerID, most recently applied first.
func (t *Tracker) List(ctx context.Context, ownerID string) ([]models.Application, error) {
	ctx, span := t.tracer.Start(ctx, "List")
	defer span.End()

	if ownerID == "" {
		return nil, errors.Unauthorized("no active session", nil)
	}

	var cached models.ApplicationList
	err := t.cache.Get(ctx, listKey(ownerID), &cached)
	if err == nil {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return cached, nil
	}
	if err != cache.ErrNotFound {
		span.RecordError(err)
		t.logger.Warn("record list cache error", zap.Error(err))
	}
	span.SetAttributes(telemetry.String("cache.result", "miss"))

	gen := t.nextGen()
	items, err := t.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(telemetry.Int("records.count", len(items)))

	if t.currentGen() == gen {
		if err := t.cache.Set(ctx, listKey(ownerID), models.ApplicationList(items), t.ttl); err != nil {
			t.logger.Warn("failed to cache record list", zap.Error(err))
		}
	}
	return items, nil
}

// Create validates the payload, stamps the owner, and persists a new record.
func (t *Tracker) Create(ctx context.Context, d models.Draft, ownerID string) (*models.Application, error) {
	ctx, span := t.tracer.Start(ctx, "Create")
	defer span.End()

	if ownerID == "" {
		return nil, errors.Unauthorized("no active session", nil)
	}
	if d.Status == "" {
		d.Status = models.StatusApplied
	}
	if err := validate.DraftNow(d); err != nil {
		return nil, err
	}

	created, err := t.repo.Insert(ctx, models.Application{
		OwnerID:     ownerID,
		CompanyName: d.CompanyName,
		JobTitle:    d.JobTitle,
		Status:      d.Status,
		JobURL:      d.JobURL,
		SalaryRange: d.SalaryRange,
		Location:    d.Location,
		AppliedDate: d.AppliedDate,
		Notes:       d.Notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	t.invalidate(ctx, ownerID)
	_ = t.activity.Record(ctx, analytics.Event{
		Name:     analytics.EventRecordCreated,
		OwnerID:  ownerID,
		RecordID: created.ID,
	})
	t.logger.Info("created application",
		zap.String("id", created.ID),
		zap.String("company", created.CompanyName))
	return created, nil
}

// Update validates the payload and overwrites the record matched by id. The
// owner is not re-stamped; ownership is enforced by the remote store's
// row-level rules, not re-checked here.
func (t *Tracker) Update(ctx context.Context, id string, d models.Draft, ownerID string) (*models.Application, error) {
	ctx, span := t.tracer.Start(ctx, "Update")
	defer span.End()

	if ownerID == "" {
		return nil, errors.Unauthorized("no active session", nil)
	}
	if err := validate.DraftNow(d); err != nil {
		return nil, err
	}

	updated, err := t.repo.Update(ctx, id, d)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	t.invalidate(ctx, ownerID)
	_ = t.activity.Record(ctx, analytics.Event{
		Name:     analytics.EventRecordUpdated,
		OwnerID:  ownerID,
		RecordID: id,
	})
	return updated, nil
}

// Delete removes the record. Until the remote store acknowledges, the cached
// list still contains the record; only a successful delete invalidates it.
func (t *Tracker) Delete(ctx context.Context, id string, ownerID string) error {
	ctx, span := t.tracer.Start(ctx, "Delete")
	defer span.End()

	if ownerID == "" {
		return errors.Unauthorized("no active session", nil)
	}

	if err := t.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	t.invalidate(ctx, ownerID)
	_ = t.activity.Record(ctx, analytics.Event{
		Name:     analytics.EventRecordDeleted,
		OwnerID:  ownerID,
		RecordID: id,
	})
	t.logger.Info("deleted application", zap.String("id", id))
	return nil
}

// Refresh drops the cached list and fetches a fresh one.
func (t *Tracker) Refresh(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return errors.Unauthorized("no active session", nil)
	}
	t.invalidate(ctx, ownerID)
	_, err := t.List(ctx, ownerID)
	return err
}

// Forget drops everything cached for ownerID. Called on sign-out so no
// record data survives the session.
func (t *Tracker) Forget(ctx context.Context, ownerID string) {
	if ownerID == "" {
		return
	}
	t.invalidate(ctx, ownerID)
}

func (t *Tracker) invalidate(ctx context.Context, ownerID string) {
	t.nextGen()
	if err := t.cache.Delete(ctx, listKey(ownerID)); err != nil {
		t.logger.Warn("failed to invalidate record list", zap.Error(err))
	}
}

func (t *Tracker) nextGen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetchGen++
	return t.fetchGen
}

func (t *Tracker) currentGen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetchGen
}
