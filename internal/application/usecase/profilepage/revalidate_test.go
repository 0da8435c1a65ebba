package profilepage_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/eventtype"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

func TestRevalidate_RefetchesAndReplacesPage(t *testing.T) {
	h := newHarness(time.Hour)
	u := h.store.addUser(alice(), introCall())
	uc := profilepage.NewRevalidateUseCase(h.fetcher, h.generator, logger.NewNop())

	_, err := h.generator.Execute(t.Context(), "alice")
	require.NoError(t, err)
	assert.Contains(t, string(h.cache.get("/alice").HTML), "entries=1")

	h.store.mu.Lock()
	h.store.eventTypes[u.ID] = append(h.store.eventTypes[u.ID], &eventtype.EventType{ID: 2, UserID: u.ID, Slug: "long", Length: 60})
	h.store.mu.Unlock()

	out, err := uc.Execute(t.Context(), "alice")
	require.NoError(t, err)

	assert.Equal(t, page.ViewProfile, out.Kind)
	assert.Contains(t, string(h.cache.get("/alice").HTML), "entries=2")
	assert.EqualValues(t, 2, h.store.findCalls.Load())
}

func TestRevalidate_BlankUsername(t *testing.T) {
	h := newHarness(time.Hour)
	uc := profilepage.NewRevalidateUseCase(h.fetcher, h.generator, logger.NewNop())

	_, err := uc.Execute(t.Context(), "  ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRequestRevalidation_Publishes(t *testing.T) {
	h := newHarness(time.Hour)
	pub := &fakePublisher{}
	uc := profilepage.NewRequestRevalidationUseCase(pub, profilepage.NewRevalidateUseCase(h.fetcher, h.generator, logger.NewNop()))

	out, err := uc.Execute(t.Context(), "alice")
	require.NoError(t, err)

	assert.True(t, out.Queued)
	assert.Equal(t, []string{"alice"}, pub.published)
	assert.Zero(t, h.store.findCalls.Load())
}

func TestRequestRevalidation_PublishFailure(t *testing.T) {
	h := newHarness(time.Hour)
	pub := &fakePublisher{err: errors.New("broker down")}
	uc := profilepage.NewRequestRevalidationUseCase(pub, profilepage.NewRevalidateUseCase(h.fetcher, h.generator, logger.NewNop()))

	_, err := uc.Execute(t.Context(), "alice")
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestRequestRevalidation_InlineWithoutPublisher(t *testing.T) {
	h := newHarness(time.Hour)
	h.store.addUser(bob())
	uc := profilepage.NewRequestRevalidationUseCase(nil, profilepage.NewRevalidateUseCase(h.fetcher, h.generator, logger.NewNop()))

	out, err := uc.Execute(t.Context(), "bob")
	require.NoError(t, err)

	assert.False(t, out.Queued)
	assert.NotNil(t, h.cache.get("/bob"))
}
