package profilepage

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

// PrerenderUseCase generates every enumerated profile page ahead of time.
type PrerenderUseCase struct {
	enumerator  *PathEnumerator
	generator   *Generator
	concurrency int
	logger      logger.Logger
}

func NewPrerenderUseCase(enumerator *PathEnumerator, generator *Generator, concurrency int, log logger.Logger) *PrerenderUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PrerenderUseCase{
		enumerator:  enumerator,
		generator:   generator,
		concurrency: concurrency,
		logger:      log,
	}
}

type PrerenderOutput struct {
	Paths     *page.Paths
	Generated int
	NotFound  int
	Failed    int
}

// Execute fails only when the paths cannot be enumerated. A page that fails
// to generate is logged and counted; it will be generated on demand.
func (uc *PrerenderUseCase) Execute(ctx context.Context) (*PrerenderOutput, error) {
	paths, err := uc.enumerator.Execute(ctx)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Enumerated profile paths", zap.Int("count", len(paths.Paths)), zap.String("fallback", string(paths.Fallback)))

	var generated, notFound, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, p := range paths.Paths {
		username := p.Params.User
		g.Go(func() error {
			out, err := uc.generator.Execute(gctx, username)
			switch {
			case err != nil:
				failed.Add(1)
				uc.logger.Error("Failed to prerender page", err, zap.String("username", username))
			case out.Kind == page.ViewProfile:
				generated.Add(1)
			case out.Kind == page.ViewNotFound:
				notFound.Add(1)
			default:
				failed.Add(1)
				uc.logger.Warn("Prerendered page is not a profile", zap.String("username", username), zap.String("view", out.Kind.String()))
			}
			return nil
		})
	}
	_ = g.Wait()

	return &PrerenderOutput{
		Paths:     paths,
		Generated: int(generated.Load()),
		NotFound:  int(notFound.Load()),
		Failed:    int(failed.Load()),
	}, nil
}
