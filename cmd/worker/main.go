package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/adapters/event"
	"github.com/khoahotran/profile-pages/adapters/html"
	"github.com/khoahotran/profile-pages/adapters/media_storage"
	"github.com/khoahotran/profile-pages/adapters/persistence"
	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/pkg/logger"
	"github.com/khoahotran/profile-pages/pkg/query"
	"github.com/khoahotran/profile-pages/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Profile Pages Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("cannot start worker", errors.New("config Kafka brokers not found"))
	}
	if cfg.Redis.Addr == "" {
		appLogger.Fatal("cannot start worker", errors.New("worker needs the shared Redis page cache"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, "profile-pages-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	avatars, err := media_storage.NewAvatarResolver(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize avatar resolver", err)
	}
	renderer, err := html.NewRenderer()
	if err != nil {
		appLogger.Fatal("cannot parse page templates", err)
	}

	// Worker Use Case
	fetcher := profilepage.NewFetcher(
		persistence.NewPostgresUserRepo(dbPool),
		persistence.NewPostgresEventTypeRepo(dbPool),
		query.NewClient(cfg.Query.StaleTime, query.WithGCTime(cfg.Query.GCTime), query.WithMaxEntries(cfg.Query.MaxEntries)),
	)
	propsLoader := profilepage.NewPropsLoader(fetcher, cfg.Page.Revalidate)
	pageCache := persistence.NewRedisPageCache(redisClient)
	generator := profilepage.NewGenerator(propsLoader, fetcher, renderer, avatars, pageCache, cfg.Page.CacheTTL, appLogger)
	revalidateUseCase := profilepage.NewRevalidateUseCase(fetcher, generator, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group", cfg.Kafka.GroupID))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		payload, err := event.DecodePageEvent(msg)
		if err != nil {
			appLogger.Warn("Skipping malformed page event", zap.Int64("offset", msg.Offset), zap.Error(err))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		msgLogger := appLogger.With(zap.String("username", payload.Username), zap.String("event_type", payload.EventType))
		if payload.EventType != event.EventRevalidate {
			msgLogger.Warn("Skipping unknown page event")
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		if _, err := revalidateUseCase.Execute(ctx, payload.Username); err != nil {
			// Left uncommitted so the group redelivers it after a restart.
			msgLogger.Error("Failed to revalidate page", err)
			continue
		}

		commitMessage(ctx, consumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
