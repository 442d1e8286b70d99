package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/telemetry"
)

var tracer = telemetry.GetTracer("jobtrackr/events")

type Publisher interface {
	PublishSessionEvent(ctx context.Context, subject string, event SessionEvent) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(natsURL string, connTimeout time.Duration, logger *zap.Logger) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(connTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, errors.Internal("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishSessionEvent(ctx context.Context, subject string, event SessionEvent) error {
	_, span := tracer.Start(ctx, "PublishSessionEvent")
	defer span.End()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling session event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish session event",
			zap.String("subject", subject),
			zap.Error(err))
		return errors.Internal("publishing session event", err)
	}

	p.logger.Debug("published session event",
		zap.String("subject", subject),
		zap.String("user_id", event.UserID))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
