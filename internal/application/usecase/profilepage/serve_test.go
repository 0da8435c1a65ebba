package profilepage_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

func newServe(h *harness, fallback page.FallbackMode, revalidate time.Duration) *profilepage.ServePageUseCase {
	return profilepage.NewServePageUseCase(h.generator, h.fetcher, h.cache, fallback, revalidate, logger.NewNop())
}

func serve(t *testing.T, uc *profilepage.ServePageUseCase, username string) *profilepage.ServePageOutput {
	t.Helper()
	out, err := uc.Execute(t.Context(), profilepage.ServePageInput{Username: username})
	require.NoError(t, err)
	return out
}

func TestServe_FreshPageIsHit(t *testing.T) {
	h := newHarness(time.Minute)
	cached := &page.CachedPage{Path: "/alice", Status: http.StatusOK, HTML: []byte("cached"), GeneratedAt: time.Now()}
	h.cache.pages["/alice"] = cached

	out := serve(t, newServe(h, page.FallbackTrue, time.Minute), "alice")

	assert.Equal(t, profilepage.CacheHit, out.Cache)
	assert.Same(t, cached, out.Page)
	assert.Zero(t, h.store.findCalls.Load())
}

func TestServe_StalePageIsServedAndRegenerated(t *testing.T) {
	h := newHarness(time.Second)
	h.store.addUser(alice(), introCall())
	old := &page.CachedPage{Path: "/alice", Status: http.StatusOK, HTML: []byte("old"), GeneratedAt: time.Now().Add(-time.Hour)}
	h.cache.pages["/alice"] = old

	out := serve(t, newServe(h, page.FallbackTrue, time.Second), "alice")

	assert.Equal(t, profilepage.CacheStale, out.Cache)
	assert.Equal(t, "old", string(out.Page.HTML))
	assert.Eventually(t, func() bool {
		p := h.cache.get("/alice")
		return p != nil && p != old
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, string(h.cache.get("/alice").HTML), "kind=profile user=alice")
}

func TestServe_FallbackTrueShowsPlaceholderThenPage(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice(), introCall())
	h.store.delay = 20 * time.Millisecond
	uc := newServe(h, page.FallbackTrue, time.Second)

	out := serve(t, uc, "alice")
	assert.Equal(t, profilepage.CacheFallback, out.Cache)
	assert.Equal(t, http.StatusOK, out.Page.Status)
	assert.Equal(t, "kind=placeholder user=alice entries=0 empty=false theme=", string(out.Page.HTML))

	require.Eventually(t, func() bool { return h.cache.get("/alice") != nil }, time.Second, 5*time.Millisecond)

	out = serve(t, uc, "alice")
	assert.Equal(t, profilepage.CacheHit, out.Cache)
	assert.Contains(t, string(out.Page.HTML), "kind=profile")
}

func TestServe_FallbackTrueUnknownUserSettlesToNotFound(t *testing.T) {
	h := newHarness(time.Minute)
	uc := newServe(h, page.FallbackTrue, time.Second)

	out := serve(t, uc, "ghost")
	assert.Equal(t, profilepage.CacheFallback, out.Cache)

	require.Eventually(t, func() bool {
		return !h.fetcher.Observe("ghost").IsPending()
	}, time.Second, 5*time.Millisecond)

	out = serve(t, uc, "ghost")
	assert.Equal(t, profilepage.CacheMiss, out.Cache)
	assert.Equal(t, http.StatusNotFound, out.Page.Status)
	assert.Contains(t, string(out.Page.HTML), "kind=not_found")
	assert.Nil(t, h.cache.get("/ghost"))
}

func TestServe_FallbackBlockingGeneratesInline(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(bob())

	out := serve(t, newServe(h, page.FallbackBlocking, time.Second), "bob")

	assert.Equal(t, profilepage.CacheMiss, out.Cache)
	assert.Equal(t, "kind=profile user=bob entries=0 empty=true theme=", string(out.Page.HTML))
	assert.NotNil(t, h.cache.get("/bob"))
}

func TestServe_FallbackFalseIsNotFound(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice())

	_, err := newServe(h, page.FallbackFalse, time.Second).Execute(t.Context(), profilepage.ServePageInput{Username: "alice"})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, h.store.findCalls.Load())
}

func TestServe_CacheReadErrorIsMiss(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice())
	h.cache.getErr = errors.New("redis down")

	out := serve(t, newServe(h, page.FallbackBlocking, time.Second), "alice")

	assert.Equal(t, profilepage.CacheMiss, out.Cache)
	assert.Contains(t, string(out.Page.HTML), "kind=profile")
}

func TestServe_ConcurrentMissesShareOneFetch(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice(), introCall())
	h.store.delay = 30 * time.Millisecond
	uc := newServe(h, page.FallbackBlocking, time.Second)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.Execute(t.Context(), profilepage.ServePageInput{Username: "alice"})
			assert.NoError(t, err)
			assert.Equal(t, page.ViewProfile.HTTPStatus(), out.Page.Status)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, h.store.findCalls.Load())
}

func TestServe_BlankUsername(t *testing.T) {
	h := newHarness(time.Minute)

	_, err := newServe(h, page.FallbackTrue, time.Second).Execute(t.Context(), profilepage.ServePageInput{Username: ""})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestServe_CancelledCallerDoesNotFailSharedGeneration(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice(), introCall())
	h.store.delay = 50 * time.Millisecond
	uc := newServe(h, page.FallbackBlocking, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := uc.Execute(ctx, profilepage.ServePageInput{Username: "alice"})
		first <- err
	}()
	time.Sleep(10 * time.Millisecond)

	waiter := make(chan *profilepage.ServePageOutput, 1)
	go func() {
		out, err := uc.Execute(context.Background(), profilepage.ServePageInput{Username: "alice"})
		assert.NoError(t, err)
		waiter <- out
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-first, context.Canceled)
	out := <-waiter
	require.NotNil(t, out)
	assert.Equal(t, http.StatusOK, out.Page.Status)
	assert.Contains(t, string(out.Page.HTML), "kind=profile")
	assert.EqualValues(t, 1, h.store.findCalls.Load())
	assert.True(t, h.fetcher.Observe("alice").IsSuccess(), "the shared fetch is stored, not the cancellation")
}
