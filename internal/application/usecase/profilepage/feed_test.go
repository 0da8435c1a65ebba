package profilepage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/pkg/apperror"
)

func TestFeed_ListsEventTypes(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice(), introCall())

	feed, err := profilepage.NewFeedUseCase(h.fetcher, "https://cal.test/").Execute(t.Context(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice | Event types", feed.Title)
	assert.Equal(t, "https://cal.test/alice", feed.Link.Href)
	assert.Equal(t, "hi", feed.Description)
	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, "Intro Call", item.Title)
	assert.Equal(t, "https://cal.test/alice/intro", item.Link.Href)
	assert.Equal(t, "30m, 1-on-1. short chat", item.Description)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Intro Call</title>")
}

func TestFeed_UnknownUser(t *testing.T) {
	h := newHarness(time.Minute)

	_, err := profilepage.NewFeedUseCase(h.fetcher, "https://cal.test").Execute(t.Context(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFeed_StoreError(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.findErr = errStoreDown

	_, err := profilepage.NewFeedUseCase(h.fetcher, "https://cal.test").Execute(t.Context(), "alice")
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorIs(t, err, errStoreDown)
}
