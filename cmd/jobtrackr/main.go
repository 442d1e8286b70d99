package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/analytics"
	"github.com/CesarValbuena2725/JobTrackr/internal/auth"
	"github.com/CesarValbuena2725/JobTrackr/internal/cache"
	cacheredis "github.com/CesarValbuena2725/JobTrackr/internal/cache/redis"
	"github.com/CesarValbuena2725/JobTrackr/internal/config"
	"github.com/CesarValbuena2725/JobTrackr/internal/events"
	"github.com/CesarValbuena2725/JobTrackr/internal/store"
	"github.com/CesarValbuena2725/JobTrackr/internal/store/postgres"
	"github.com/CesarValbuena2725/JobTrackr/internal/telemetry"
	"github.com/CesarValbuena2725/JobTrackr/internal/tracker"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newCache(cfg *config.Config) cache.Cache {
	return cacheredis.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("jobtrackr"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	return events.NewPublisher(cfg.NATSURL, cfg.NATSConnTimeout, logger)
}

func newPostgres(cfg *config.Config) (*sql.DB, error) {
	return postgres.Open(context.Background(), postgres.Options{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
}

func newApplicationRepository(db *sql.DB) store.ApplicationRepository {
	return postgres.NewApplicationRepository(db)
}

func newClickHouseConnection(cfg *config.Config) (clickhouse.Conn, error) {
	return analytics.OpenConn(context.Background(), analytics.Options{
		DSN:      cfg.ClickHouseDSN,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
		Database: cfg.ClickHouseDatabase,
	})
}

func newRecorder(conn clickhouse.Conn, logger *zap.Logger) analytics.Recorder {
	return analytics.NewRecorder(conn, logger)
}

func newTracker(repo store.ApplicationRepository, c cache.Cache, recorder analytics.Recorder, cfg *config.Config, logger *zap.Logger) *tracker.Tracker {
	return tracker.New(repo, c, recorder, cfg.ListCacheTTL, logger)
}

func newAuthClient(cfg *config.Config, c cache.Cache, publisher events.Publisher, logger *zap.Logger) *auth.Client {
	return auth.NewClient(cfg, c, publisher, logger)
}

func newGate(t *tracker.Tracker, client *auth.Client, recorder analytics.Recorder, logger *zap.Logger) *auth.Gate {
	return auth.NewGate(t, client, recorder, logger)
}

func newSubscriber(logger *zap.Logger, nc *nats.Conn, gate *auth.Gate) *events.Subscriber {
	return events.NewSubscriber(logger, nc, gate)
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newCache,
			newNATSConnection,
			newPublisher,
			newPostgres,
			newApplicationRepository,
			newClickHouseConnection,
			newRecorder,
			newTracker,
			newAuthClient,
			newGate,
			newSubscriber,
		),
		fx.Invoke(
			func(cfg *config.Config, lc fx.Lifecycle) {
				if cfg.OtelCollectorURL == "" {
					return
				}
				shutdown, err := telemetry.InitTracer(context.Background(), "jobtrackr", cfg.OtelCollectorURL)
				if err != nil {
					log.Printf("tracing disabled: %v", err)
					return
				}
				lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
					shutdown()
					return nil
				}})
			},
			func(subscriber *events.Subscriber, lc fx.Lifecycle) error {
				return subscriber.RegisterSubscriptions(lc)
			},
			func(gate *auth.Gate, lc fx.Lifecycle) {
				lc.Append(fx.Hook{OnStart: func(ctx context.Context) error {
					gate.Start(ctx)
					return nil
				}})
			},
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
