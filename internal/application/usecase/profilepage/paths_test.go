package profilepage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/internal/domain/user"
)

func TestRoutableUsernames(t *testing.T) {
	got := profilepage.RoutableUsernames([]*string{ptr("alice"), nil, ptr(""), ptr("bob")})
	assert.Equal(t, []string{"alice", "bob"}, got)

	assert.Empty(t, profilepage.RoutableUsernames(nil))
}

func TestPathEnumerator(t *testing.T) {
	store := newFakeStore()
	store.addUser(&user.User{Username: ptr("alice")})
	store.addUser(&user.User{})
	store.addUser(&user.User{Username: ptr("")})
	store.addUser(&user.User{Username: ptr("bob")})

	paths, err := profilepage.NewPathEnumerator(store, page.FallbackTrue).Execute(t.Context())
	require.NoError(t, err)

	assert.Equal(t, page.FallbackTrue, paths.Fallback)
	require.Len(t, paths.Paths, 2)
	assert.Equal(t, "alice", paths.Paths[0].Params.User)
	assert.Equal(t, "bob", paths.Paths[1].Params.User)
	assert.Equal(t, "/bob", paths.Paths[1].String())
}

func TestPathEnumerator_OnePathPerUsername(t *testing.T) {
	store := newFakeStore()
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		store.addUser(&user.User{Username: ptr(n)})
	}

	paths, err := profilepage.NewPathEnumerator(store, page.FallbackBlocking).Execute(t.Context())
	require.NoError(t, err)

	seen := map[string]int{}
	for _, p := range paths.Paths {
		seen[p.Params.User]++
	}
	for _, n := range names {
		assert.Equal(t, 1, seen[n], n)
	}
	assert.Len(t, paths.Paths, len(names))
}

func TestPathEnumerator_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errStoreDown

	_, err := profilepage.NewPathEnumerator(store, page.FallbackTrue).Execute(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
}
