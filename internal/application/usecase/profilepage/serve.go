package profilepage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

type CacheStatus string

const (
	CacheHit      CacheStatus = "HIT"
	CacheStale    CacheStatus = "STALE"
	CacheMiss     CacheStatus = "MISS"
	CacheFallback CacheStatus = "FALLBACK"
)

const backgroundTimeout = 30 * time.Second

// ServePageUseCase serves generated pages and regenerates them once they
// are older than the revalidation interval.
type ServePageUseCase struct {
	generator  *Generator
	fetcher    *Fetcher
	cache      page.Cache
	fallback   page.FallbackMode
	revalidate time.Duration
	logger     logger.Logger
	regen      singleflight.Group
	now        func() time.Time
}

func NewServePageUseCase(
	generator *Generator,
	fetcher *Fetcher,
	cache page.Cache,
	fallback page.FallbackMode,
	revalidate time.Duration,
	log logger.Logger,
) *ServePageUseCase {
	return &ServePageUseCase{
		generator:  generator,
		fetcher:    fetcher,
		cache:      cache,
		fallback:   fallback,
		revalidate: revalidate,
		logger:     log,
		now:        time.Now,
	}
}

type ServePageInput struct {
	Username string
}

type ServePageOutput struct {
	Page  *page.CachedPage
	Cache CacheStatus
}

func (uc *ServePageUseCase) Execute(ctx context.Context, input ServePageInput) (*ServePageOutput, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.NewInvalidInput("username is required", nil)
	}
	path := page.ProfilePath(username)

	cached, err := uc.cache.Get(ctx, path)
	if err != nil {
		uc.logger.Warn("Page cache read failed, treating as miss", zap.String("path", path), zap.Error(err))
		cached = nil
	}

	if cached != nil {
		if !cached.Stale(uc.now(), uc.revalidate) {
			return &ServePageOutput{Page: cached, Cache: CacheHit}, nil
		}
		uc.regenerateInBackground(ctx, username)
		return &ServePageOutput{Page: cached, Cache: CacheStale}, nil
	}

	switch uc.fallback {
	case page.FallbackFalse:
		return nil, apperror.NewNotFound("page", path)
	case page.FallbackBlocking:
		out, err := uc.generate(ctx, username)
		if err != nil {
			return nil, err
		}
		return &ServePageOutput{Page: out.Page, Cache: CacheMiss}, nil
	}

	// Data already settled for this user (unknown user, failed fetch): show
	// that outcome instead of a placeholder that would never resolve.
	if !uc.fetcher.Observe(username).IsPending() {
		out, err := uc.generate(ctx, username)
		if err != nil {
			return nil, err
		}
		return &ServePageOutput{Page: out.Page, Cache: CacheMiss}, nil
	}

	uc.regenerateInBackground(ctx, username)
	placeholder, err := uc.generator.RenderPlaceholder(username, uc.refreshInterval())
	if err != nil {
		return nil, err
	}
	return &ServePageOutput{Page: placeholder, Cache: CacheFallback}, nil
}

// generate runs the generator with at most one generation per username in
// flight. The shared generation is detached from ctx so a caller going away
// does not fail the others waiting on it.
func (uc *ServePageUseCase) generate(ctx context.Context, username string) (*GenerateOutput, error) {
	detached := context.WithoutCancel(ctx)
	ch := uc.regen.DoChan(username, func() (any, error) {
		ctx, cancel := context.WithTimeout(detached, backgroundTimeout)
		defer cancel()
		return uc.generator.Execute(ctx, username)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	out, ok := res.Val.(*GenerateOutput)
	if !ok {
		return nil, apperror.NewInternal("unexpected generation result", fmt.Errorf("got %T", res.Val))
	}
	return out, nil
}

func (uc *ServePageUseCase) regenerateInBackground(ctx context.Context, username string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		out, err := uc.generate(ctx, username)
		if err != nil {
			uc.logger.Error("Background page generation failed", err, zap.String("username", username))
			return
		}
		uc.logger.Debug("Page regenerated", zap.String("username", username), zap.String("view", out.Kind.String()))
	}()
}

func (uc *ServePageUseCase) refreshInterval() time.Duration {
	if uc.revalidate < time.Second {
		return time.Second
	}
	return uc.revalidate
}
