package profilepage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/apperror"
)

// FeedUseCase publishes a user's event types as a feed.
type FeedUseCase struct {
	fetcher *Fetcher
	baseURL string
	now     func() time.Time
}

func NewFeedUseCase(fetcher *Fetcher, baseURL string) *FeedUseCase {
	return &FeedUseCase{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (uc *FeedUseCase) Execute(ctx context.Context, username string) (*feeds.Feed, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.NewInvalidInput("username is required", nil)
	}

	res := uc.fetcher.Fetch(ctx, username)
	if res.IsError() {
		return nil, apperror.NewInternal("failed to load event types", res.Err)
	}
	if res.Data == nil || res.Data.User == nil {
		return nil, apperror.NewNotFound("user", username)
	}

	u := res.Data.User
	name := u.DisplayName()
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s | Event types", name),
		Link:        &feeds.Link{Href: uc.baseURL + page.ProfilePath(u.Handle())},
		Description: u.BioText(),
		Author:      &feeds.Author{Name: name},
		Created:     uc.now(),
	}

	for _, et := range res.Data.EventTypes {
		link := uc.baseURL + page.BookingPath(u.Handle(), et.Slug)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       et.Title,
			Link:        &feeds.Link{Href: link},
			Description: fmt.Sprintf("%s, %s. %s", et.DurationLabel(), page.EventTypeLabel, et.Description),
			Created:     feed.Created,
		})
	}
	return feed, nil
}
