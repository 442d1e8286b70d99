package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/analytics"
	"github.com/CesarValbuena2725/JobTrackr/internal/events"
)

// RecordSource is the slice of the record store the gate drives: warm the
// data on sign-in, drop it on sign-out.
type RecordSource interface {
	Refresh(ctx context.Context, ownerID string) error
	Forget(ctx context.Context, ownerID string)
}

type prober interface {
	Probe(ctx context.Context) (*Session, error)
}

// Gate tracks whether a session exists and reacts to session-change
// notifications. Views ask it for the current owner; no owner means no
// record data is shown, full stop.
type Gate struct {
	records  RecordSource
	provider prober
	activity analytics.Recorder
	logger   *zap.Logger

	mu       sync.Mutex
	ownerID  string
	email    string
	recovery bool
}

func NewGate(records RecordSource, provider prober, activity analytics.Recorder, logger *zap.Logger) *Gate {
	return &Gate{
		records:  records,
		provider: provider,
		activity: activity,
		logger:   logger,
	}
}

// Owner returns the current owner identity, if a session exists.
func (g *Gate) Owner() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ownerID, g.ownerID != ""
}

// InRecovery reports whether the session entered credential-recovery mode.
func (g *Gate) InRecovery() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recovery
}

// Start probes for a persisted session. A missing session is the normal
// logged-out state; probe failures are logged and also treated as logged
// out rather than surfaced.
func (g *Gate) Start(ctx context.Context) {
	session, err := g.provider.Probe(ctx)
	if err != nil {
		g.logger.Warn("session probe failed, starting logged out", zap.Error(err))
		return
	}
	if session == nil {
		g.logger.Info("no existing session")
		return
	}
	g.HandleSignedIn(ctx, events.SessionEvent{UserID: session.UserID, Email: session.Email})
}

func (g *Gate) HandleSignedIn(ctx context.Context, event events.SessionEvent) {
	g.mu.Lock()
	g.ownerID = event.UserID
	g.email = event.Email
	g.recovery = false
	g.mu.Unlock()

	_ = g.activity.Record(ctx, analytics.Event{
		Name:    analytics.EventSessionSignedIn,
		OwnerID: event.UserID,
	})
	if err := g.records.Refresh(ctx, event.UserID); err != nil {
		g.logger.Error("initial record fetch failed", zap.Error(err))
	}
	g.logger.Info("session established", zap.String("user_id", event.UserID))
}

func (g *Gate) HandleSignedOut(ctx context.Context, event events.SessionEvent) {
	g.mu.Lock()
	ownerID := g.ownerID
	g.ownerID = ""
	g.email = ""
	g.recovery = false
	g.mu.Unlock()

	if ownerID == "" {
		return
	}
	g.records.Forget(ctx, ownerID)
	_ = g.activity.Record(ctx, analytics.Event{
		Name:    analytics.EventSessionSignedOut,
		OwnerID: ownerID,
	})
	g.logger.Info("session ended", zap.String("user_id", ownerID))
}

func (g *Gate) HandleRecovery(ctx context.Context, event events.SessionEvent) {
	g.mu.Lock()
	g.ownerID = event.UserID
	g.email = event.Email
	g.recovery = true
	g.mu.Unlock()
	g.logger.Info("entered credential recovery", zap.String("user_id", event.UserID))
}
