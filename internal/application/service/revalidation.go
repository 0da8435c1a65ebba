package service

import "context"

// RevalidationPublisher hands a page regeneration request to the worker.
type RevalidationPublisher interface {
	PublishRevalidate(ctx context.Context, username string) error
}
