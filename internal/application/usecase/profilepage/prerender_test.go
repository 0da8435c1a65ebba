package profilepage_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/internal/domain/user"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

func TestPrerender_GeneratesEveryRoutableUser(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice(), introCall())
	h.store.addUser(bob())
	h.store.addUser(&user.User{})

	uc := profilepage.NewPrerenderUseCase(profilepage.NewPathEnumerator(h.store, page.FallbackTrue), h.generator, 2, logger.NewNop())
	out, err := uc.Execute(t.Context())
	require.NoError(t, err)

	assert.Len(t, out.Paths.Paths, 2)
	assert.Equal(t, 2, out.Generated)
	assert.Zero(t, out.NotFound)
	assert.Zero(t, out.Failed)
	assert.NotNil(t, h.cache.get("/alice"))
	assert.NotNil(t, h.cache.get("/bob"))
}

func TestPrerender_EnumerationFailureIsFatal(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.listErr = errStoreDown

	uc := profilepage.NewPrerenderUseCase(profilepage.NewPathEnumerator(h.store, page.FallbackTrue), h.generator, 0, logger.NewNop())
	_, err := uc.Execute(t.Context())
	assert.ErrorIs(t, err, errStoreDown)
}

func TestPrerender_PageFailuresAreCounted(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice())
	h.store.addUser(bob())
	gen := profilepage.NewGenerator(h.props, h.fetcher, fakeRenderer{err: errors.New("template")}, fakeAvatars{}, h.cache, time.Hour, logger.NewNop())

	uc := profilepage.NewPrerenderUseCase(profilepage.NewPathEnumerator(h.store, page.FallbackBlocking), gen, 4, logger.NewNop())
	out, err := uc.Execute(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, out.Failed)
	assert.Zero(t, out.Generated)
	assert.Equal(t, page.FallbackBlocking, out.Paths.Fallback)
}

func TestPrerender_FetchErrorsAreCounted(t *testing.T) {
	h := newHarness(time.Minute)
	h.store.addUser(alice())
	h.store.findErr = errStoreDown

	uc := profilepage.NewPrerenderUseCase(profilepage.NewPathEnumerator(h.store, page.FallbackTrue), h.generator, 1, logger.NewNop())
	out, err := uc.Execute(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 1, out.Failed)
	assert.Nil(t, h.cache.get("/alice"))
}
