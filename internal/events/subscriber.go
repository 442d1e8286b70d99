package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SessionHandler reacts to session-change notifications. The session gate is
// the one implementation.
type SessionHandler interface {
	HandleSignedIn(ctx context.Context, event SessionEvent)
	HandleSignedOut(ctx context.Context, event SessionEvent)
	HandleRecovery(ctx context.Context, event SessionEvent)
}

type Subscriber struct {
	logger  *zap.Logger
	nc      *nats.Conn
	handler SessionHandler
	subs    []*nats.Subscription
}

func NewSubscriber(logger *zap.Logger, nc *nats.Conn, handler SessionHandler) *Subscriber {
	return &Subscriber{
		logger:  logger,
		nc:      nc,
		handler: handler,
	}
}

func (s *Subscriber) RegisterSubscriptions(lc fx.Lifecycle) error {
	handlers := map[string]func(context.Context, SessionEvent){
		SubjectSignedIn:  s.handler.HandleSignedIn,
		SubjectSignedOut: s.handler.HandleSignedOut,
		SubjectRecovery:  s.handler.HandleRecovery,
	}

	for subject, handle := range handlers {
		sub, err := s.nc.Subscribe(subject, s.dispatch(subject, handle))
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	s.logger.Info("registered session subscriptions")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			for _, sub := range s.subs {
				if err := sub.Unsubscribe(); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return nil
}

func (s *Subscriber) dispatch(subject string, handle func(context.Context, SessionEvent)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx, span := tracer.Start(context.Background(), "handleSessionEvent")
		defer span.End()

		var event SessionEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			span.RecordError(err)
			s.logger.Error("failed to decode session event",
				zap.String("subject", subject),
				zap.Error(err))
			return
		}

		handle(ctx, event)
		s.logger.Debug("handled session event",
			zap.String("subject", subject),
			zap.String("user_id", event.UserID))
	}
}
