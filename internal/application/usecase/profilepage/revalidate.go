package profilepage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/application/service"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

// RevalidateUseCase drops cached data for a user and generates the page again.
type RevalidateUseCase struct {
	fetcher   *Fetcher
	generator *Generator
	logger    logger.Logger
}

func NewRevalidateUseCase(fetcher *Fetcher, generator *Generator, log logger.Logger) *RevalidateUseCase {
	return &RevalidateUseCase{fetcher: fetcher, generator: generator, logger: log}
}

func (uc *RevalidateUseCase) Execute(ctx context.Context, username string) (*GenerateOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewInvalidInput("username is required", nil)
	}

	uc.fetcher.Invalidate(username)
	out, err := uc.generator.Execute(ctx, username)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Page revalidated", zap.String("username", username), zap.String("view", out.Kind.String()))
	return out, nil
}

// RequestRevalidationUseCase queues a revalidation for the worker, or runs
// it inline when no queue is configured.
type RequestRevalidationUseCase struct {
	publisher  service.RevalidationPublisher
	revalidate *RevalidateUseCase
}

func NewRequestRevalidationUseCase(publisher service.RevalidationPublisher, revalidate *RevalidateUseCase) *RequestRevalidationUseCase {
	return &RequestRevalidationUseCase{publisher: publisher, revalidate: revalidate}
}

type RequestRevalidationOutput struct {
	Queued bool
}

func (uc *RequestRevalidationUseCase) Execute(ctx context.Context, username string) (*RequestRevalidationOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewInvalidInput("username is required", nil)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishRevalidate(ctx, username); err != nil {
			return nil, apperror.NewUnavailable("failed to queue revalidation", err)
		}
		return &RequestRevalidationOutput{Queued: true}, nil
	}

	if _, err := uc.revalidate.Execute(ctx, username); err != nil {
		return nil, err
	}
	return &RequestRevalidationOutput{Queued: false}, nil
}
