// Package analytics keeps a best-effort activity log in ClickHouse: one
// append-only row per user action. Failures are logged and never fail the
// action that produced them.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/telemetry"
)

const (
	EventRecordCreated    = "record.created"
	EventRecordUpdated    = "record.updated"
	EventRecordDeleted    = "record.deleted"
	EventSessionSignedIn  = "session.signed_in"
	EventSessionSignedOut = "session.signed_out"
)

type Event struct {
	Name       string
	OwnerID    string
	RecordID   string
	OccurredAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, event Event) error
}

type clickhouseRecorder struct {
	conn   clickhouse.Conn
	logger *zap.Logger
	tracer trace.Tracer
}

func NewRecorder(conn clickhouse.Conn, logger *zap.Logger) Recorder {
	return &clickhouseRecorder{
		conn:   conn,
		logger: logger,
		tracer: telemetry.GetTracer("jobtrackr/analytics"),
	}
}

func (r *clickhouseRecorder) Record(ctx context.Context, event Event) error {
	ctx, span := r.tracer.Start(ctx, "RecordActivity")
	defer span.End()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	span.SetAttributes(telemetry.String("activity.name", event.Name))

	query := `
		INSERT INTO activity (id, name, owner_id, record_id, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if err := r.conn.Exec(ctx, query,
		uuid.NewString(),
		event.Name,
		event.OwnerID,
		event.RecordID,
		event.OccurredAt,
	); err != nil {
		span.RecordError(err)
		r.logger.Warn("failed to record activity",
			zap.String("event", event.Name),
			zap.Error(err))
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Nop discards events; used when ClickHouse is not configured and in tests.
type Nop struct{}

func (Nop) Record(ctx context.Context, event Event) error { return nil }
