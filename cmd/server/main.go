package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/adapters/event"
	"github.com/khoahotran/profile-pages/adapters/html"
	httpAdapter "github.com/khoahotran/profile-pages/adapters/http"
	"github.com/khoahotran/profile-pages/adapters/media_storage"
	"github.com/khoahotran/profile-pages/adapters/persistence"
	"github.com/khoahotran/profile-pages/internal/application/service"
	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/auth"
	"github.com/khoahotran/profile-pages/pkg/logger"
	"github.com/khoahotran/profile-pages/pkg/query"
	"github.com/khoahotran/profile-pages/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Profile Pages API Server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, "profile-pages-server")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	fallback, err := page.ParseFallbackMode(cfg.Page.Fallback)
	if err != nil {
		appLogger.Fatal("invalid page fallback", err)
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var pageCache page.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		pageCache = persistence.NewRedisPageCache(redisClient)
	} else {
		appLogger.Warn("Redis not configured, pages are cached in memory")
		pageCache = persistence.NewMemoryPageCache()
	}

	// A nil publisher makes admin revalidation run inline.
	var publisher service.RevalidationPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	eventTypeRepo := persistence.NewPostgresEventTypeRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	avatars, err := media_storage.NewAvatarResolver(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init avatar resolver", err)
	}
	renderer, err := html.NewRenderer()
	if err != nil {
		appLogger.Fatal("cannot parse page templates", err)
	}
	queries := query.NewClient(cfg.Query.StaleTime, query.WithGCTime(cfg.Query.GCTime), query.WithMaxEntries(cfg.Query.MaxEntries))

	// Use Cases
	fetcher := profilepage.NewFetcher(userRepo, eventTypeRepo, queries)
	propsLoader := profilepage.NewPropsLoader(fetcher, cfg.Page.Revalidate)
	generator := profilepage.NewGenerator(propsLoader, fetcher, renderer, avatars, pageCache, cfg.Page.CacheTTL, appLogger)
	serveUseCase := profilepage.NewServePageUseCase(generator, fetcher, pageCache, fallback, cfg.Page.Revalidate, appLogger)
	revalidateUseCase := profilepage.NewRevalidateUseCase(fetcher, generator, appLogger)
	requestRevalidationUseCase := profilepage.NewRequestRevalidationUseCase(publisher, revalidateUseCase)
	feedUseCase := profilepage.NewFeedUseCase(fetcher, cfg.App.BaseURL)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Page:       httpAdapter.NewPageHandler(serveUseCase, cfg.Page.Revalidate, appLogger),
		Booking:    httpAdapter.NewBookingHandler(fetcher),
		RSS:        httpAdapter.NewRSSHandler(feedUseCase, appLogger),
		Revalidate: httpAdapter.NewRevalidateHandler(requestRevalidationUseCase, appLogger),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, jwtSvc, appLogger, gin.Logger())

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("fallback", string(fallback)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
