package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/adapters/html"
	"github.com/khoahotran/profile-pages/adapters/media_storage"
	"github.com/khoahotran/profile-pages/adapters/persistence"
	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/logger"
	"github.com/khoahotran/profile-pages/pkg/query"
)

// prerender generates every known profile page into the page cache.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal("Prerender failed", err)
	}
}

// run owns the database pool for the whole build and closes it on return.
func run(ctx context.Context, cfg config.Config, appLogger logger.Logger) error {
	fallback, err := page.ParseFallbackMode(cfg.Page.Fallback)
	if err != nil {
		return err
	}

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	var pageCache page.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		pageCache = persistence.NewRedisPageCache(redisClient)
	} else {
		appLogger.Warn("Redis not configured, prerendered pages are discarded on exit")
		pageCache = persistence.NewMemoryPageCache()
	}

	avatars, err := media_storage.NewAvatarResolver(cfg, appLogger)
	if err != nil {
		return err
	}
	renderer, err := html.NewRenderer()
	if err != nil {
		return err
	}

	userRepo := persistence.NewPostgresUserRepo(dbPool)
	fetcher := profilepage.NewFetcher(userRepo, persistence.NewPostgresEventTypeRepo(dbPool), query.NewClient(cfg.Query.StaleTime))
	generator := profilepage.NewGenerator(
		profilepage.NewPropsLoader(fetcher, cfg.Page.Revalidate),
		fetcher, renderer, avatars, pageCache, cfg.Page.CacheTTL, appLogger,
	)
	prerender := profilepage.NewPrerenderUseCase(
		profilepage.NewPathEnumerator(userRepo, fallback),
		generator, cfg.Prerender.Concurrency, appLogger,
	)

	out, err := prerender.Execute(ctx)
	if err != nil {
		return err
	}

	appLogger.Info("Prerender finished",
		zap.Int("paths", len(out.Paths.Paths)),
		zap.Int("generated", out.Generated),
		zap.Int("not_found", out.NotFound),
		zap.Int("failed", out.Failed),
		zap.String("fallback", string(out.Paths.Fallback)),
	)
	return nil
}
