package profilepage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/eventtype"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/internal/domain/user"
	"github.com/khoahotran/profile-pages/pkg/logger"
	"github.com/khoahotran/profile-pages/pkg/query"
)

func ptr(s string) *string { return &s }

type fakeStore struct {
	mu         sync.Mutex
	users      []*user.User
	eventTypes map[uuid.UUID][]*eventtype.EventType
	listErr    error
	findErr    error
	findCalls  atomic.Int32
	delay      time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{eventTypes: make(map[uuid.UUID][]*eventtype.EventType)}
}

func (s *fakeStore) addUser(u *user.User, ets ...*eventtype.EventType) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, et := range ets {
		if et.UserID == uuid.Nil {
			et.UserID = u.ID
		}
	}
	s.users = append(s.users, u)
	s.eventTypes[u.ID] = ets
	return u
}

func (s *fakeStore) ListUsernames(context.Context) ([]*string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*string, len(s.users))
	for i, u := range s.users {
		out[i] = u.Username
	}
	return out, nil
}

func (s *fakeStore) FindByUsername(_ context.Context, username string) (*user.User, error) {
	s.findCalls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s *fakeStore) ListPublicByUserID(_ context.Context, userID uuid.UUID) ([]*eventtype.EventType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventTypes[userID], nil
}

// fakeRenderer writes a compact description of the view.
type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Render(w io.Writer, v page.View) error {
	if r.err != nil {
		return r.err
	}
	_, err := fmt.Fprintf(w, "kind=%s user=%s entries=%d empty=%t theme=%s", v.Kind, v.Username, len(v.Entries), v.Empty != nil, v.Theme)
	return err
}

type fakeAvatars struct{}

func (fakeAvatars) AvatarURL(avatar string) string {
	return "https://img.test/" + avatar
}

type fakeCache struct {
	mu     sync.Mutex
	pages  map[string]*page.CachedPage
	getErr error
	sets   atomic.Int32
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: make(map[string]*page.CachedPage)}
}

func (c *fakeCache) Get(_ context.Context, path string) (*page.CachedPage, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[path], nil
}

func (c *fakeCache) Set(_ context.Context, p *page.CachedPage, _ time.Duration) error {
	c.sets.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[p.Path] = p
	return nil
}

func (c *fakeCache) Delete(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, path)
	return nil
}

func (c *fakeCache) get(path string) *page.CachedPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[path]
}

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) PublishRevalidate(_ context.Context, username string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, username)
	return nil
}

var errStoreDown = errors.New("store down")

type harness struct {
	store     *fakeStore
	cache     *fakeCache
	queries   *query.Client
	fetcher   *profilepage.Fetcher
	props     *profilepage.PropsLoader
	generator *profilepage.Generator
}

func newHarness(staleTime time.Duration) *harness {
	h := &harness{
		store:   newFakeStore(),
		cache:   newFakeCache(),
		queries: query.NewClient(staleTime),
	}
	h.fetcher = profilepage.NewFetcher(h.store, h.store, h.queries)
	h.props = profilepage.NewPropsLoader(h.fetcher, time.Second)
	h.generator = profilepage.NewGenerator(h.props, h.fetcher, fakeRenderer{}, fakeAvatars{}, h.cache, time.Hour, logger.NewNop())
	return h
}

func alice() *user.User {
	return &user.User{Username: ptr("alice"), Bio: ptr("hi"), Theme: ptr("dark")}
}

func introCall() *eventtype.EventType {
	return &eventtype.EventType{ID: 1, Slug: "intro", Title: "Intro Call", Length: 30, Description: "short chat"}
}

func bob() *user.User {
	return &user.User{Username: ptr("bob")}
}
