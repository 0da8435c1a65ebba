package profilepage

import (
	"bytes"
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/application/service"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

// Generator renders a profile page and stores it when it is a real profile.
type Generator struct {
	props    *PropsLoader
	fetcher  *Fetcher
	renderer service.PageRenderer
	avatars  service.AvatarResolver
	cache    page.Cache
	cacheTTL time.Duration
	logger   logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewGenerator(
	props *PropsLoader,
	fetcher *Fetcher,
	renderer service.PageRenderer,
	avatars service.AvatarResolver,
	cache page.Cache,
	cacheTTL time.Duration,
	log logger.Logger,
) *Generator {
	return &Generator{
		props:    props,
		fetcher:  fetcher,
		renderer: renderer,
		avatars:  avatars,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
		tracer:   otel.Tracer("github.com/khoahotran/profile-pages/profilepage"),
		now:      time.Now,
	}
}

type GenerateOutput struct {
	Page *page.CachedPage
	Kind page.ViewKind
}

// Execute always returns a rendered page for a valid username; fetch
// failures and unknown users come back as ViewError and ViewNotFound pages.
// Only ViewProfile pages are cached. A user that disappeared has its cached
// page removed.
func (g *Generator) Execute(ctx context.Context, username string) (*GenerateOutput, error) {
	ctx, span := g.tracer.Start(ctx, "profilepage.generate", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	props, err := g.props.Execute(ctx, LoadPropsInput{Username: username})
	if err != nil {
		return nil, err
	}

	g.fetcher.Hydrate(props.TRPCState)
	res := g.fetcher.Fetch(ctx, props.User)

	// The embedded props carry the data this page was rendered from.
	if state, err := g.fetcher.Snapshot(username); err == nil {
		props.TRPCState = state
	}

	view := Select(NewPageState(res), g.avatars)
	view.Props = props

	var buf bytes.Buffer
	if err := g.renderer.Render(&buf, view); err != nil {
		return nil, apperror.NewInternal("failed to render profile page", err)
	}

	p := &page.CachedPage{
		Path:        page.ProfilePath(username),
		Username:    username,
		Status:      view.Kind.HTTPStatus(),
		HTML:        buf.Bytes(),
		GeneratedAt: g.now(),
	}
	span.SetAttributes(attribute.String("view", view.Kind.String()))

	switch view.Kind {
	case page.ViewProfile:
		if err := g.cache.Set(ctx, p, g.cacheTTL); err != nil {
			g.logger.Warn("Failed to store generated page", zap.String("path", p.Path), zap.Error(err))
		}
	case page.ViewNotFound:
		if err := g.cache.Delete(ctx, p.Path); err != nil {
			g.logger.Warn("Failed to drop page of missing user", zap.String("path", p.Path), zap.Error(err))
		}
	case page.ViewError:
		g.logger.Error("Profile data fetch failed", res.Err, zap.String("username", username))
	}

	return &GenerateOutput{Page: p, Kind: view.Kind}, nil
}

// RenderPlaceholder renders the page shown while data for username is
// still loading.
func (g *Generator) RenderPlaceholder(username string, refreshAfter time.Duration) (*page.CachedPage, error) {
	view := page.View{Kind: page.ViewPlaceholder, Username: username, RefreshAfter: refreshAfter}

	var buf bytes.Buffer
	if err := g.renderer.Render(&buf, view); err != nil {
		return nil, apperror.NewInternal("failed to render placeholder page", err)
	}
	return &page.CachedPage{
		Path:        page.ProfilePath(username),
		Username:    username,
		Status:      view.Kind.HTTPStatus(),
		HTML:        buf.Bytes(),
		GeneratedAt: g.now(),
	}, nil
}
