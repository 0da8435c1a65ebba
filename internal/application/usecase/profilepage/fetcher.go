package profilepage

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/khoahotran/profile-pages/internal/domain/eventtype"
	"github.com/khoahotran/profile-pages/internal/domain/user"
	"github.com/khoahotran/profile-pages/pkg/query"
)

// OpUserAndEventTypes names the upstream query in cache keys.
const OpUserAndEventTypes = "booking.userAndEventType"

// UserAndEventTypes is what a profile page is built from. Every event type
// belongs to User.
type UserAndEventTypes struct {
	User       *user.User             `json:"user"`
	EventTypes []*eventtype.EventType `json:"eventTypes"`
}

func Key(username string) query.Key {
	return query.NewKey(OpUserAndEventTypes, username)
}

// Fetcher loads profile data through the shared query cache.
type Fetcher struct {
	users      user.Repository
	eventTypes eventtype.Repository
	queries    *query.Client
	tracer     trace.Tracer
}

func NewFetcher(users user.Repository, eventTypes eventtype.Repository, queries *query.Client) *Fetcher {
	return &Fetcher{
		users:      users,
		eventTypes: eventTypes,
		queries:    queries,
		tracer:     otel.Tracer("github.com/khoahotran/profile-pages/profilepage"),
	}
}

// GetUserAndEventTypes queries the store directly. A missing user is
// reported as nil data, not as an error.
func (f *Fetcher) GetUserAndEventTypes(ctx context.Context, username string) (*UserAndEventTypes, error) {
	u, err := f.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ets, err := f.eventTypes.ListPublicByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}

	owned := make([]*eventtype.EventType, 0, len(ets))
	for _, et := range ets {
		if et.UserID == u.ID {
			owned = append(owned, et)
		}
	}

	return &UserAndEventTypes{User: u, EventTypes: owned}, nil
}

func (f *Fetcher) Fetch(ctx context.Context, username string) query.Result[*UserAndEventTypes] {
	ctx, span := f.tracer.Start(ctx, "profilepage.fetch", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	res := query.Fetch(ctx, f.queries, Key(username), func(ctx context.Context) (*UserAndEventTypes, error) {
		return f.GetUserAndEventTypes(ctx, username)
	})
	if res.IsError() {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "fetch failed")
	}
	return res
}

// Observe reports what the cache holds for username without fetching.
func (f *Fetcher) Observe(username string) query.Result[*UserAndEventTypes] {
	return query.Observe[*UserAndEventTypes](f.queries, Key(username))
}

func (f *Fetcher) Invalidate(username string) {
	f.queries.Invalidate(Key(username))
}

func (f *Fetcher) Snapshot(username string) (query.DehydratedState, error) {
	return f.queries.Dehydrate(Key(username))
}

func (f *Fetcher) Hydrate(state query.DehydratedState) {
	f.queries.Hydrate(state)
}
