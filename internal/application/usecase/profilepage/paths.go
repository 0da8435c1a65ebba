package profilepage

import (
	"context"
	"fmt"

	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/internal/domain/user"
)

// PathEnumerator lists every profile page that can be generated ahead of time.
type PathEnumerator struct {
	users    user.Repository
	fallback page.FallbackMode
}

func NewPathEnumerator(users user.Repository, fallback page.FallbackMode) *PathEnumerator {
	return &PathEnumerator{users: users, fallback: fallback}
}

func (uc *PathEnumerator) Execute(ctx context.Context) (*page.Paths, error) {
	usernames, err := uc.users.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}

	routable := RoutableUsernames(usernames)
	paths := make([]page.Path, len(routable))
	for i, name := range routable {
		paths[i] = page.Path{Params: page.Params{User: name}}
	}

	return &page.Paths{Paths: paths, Fallback: uc.fallback}, nil
}

// RoutableUsernames drops users without a username; they have no route.
func RoutableUsernames(usernames []*string) []string {
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u != nil && *u != "" {
			out = append(out, *u)
		}
	}
	return out
}
