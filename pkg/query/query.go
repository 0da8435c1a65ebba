// Package query is a request cache keyed by operation name and parameters.
//
// Concurrent fetches of the same key are collapsed into one upstream call,
// successful results are reused until they go stale, and every read reports
// one of three states: pending, success or error. A snapshot of the cache can
// be dehydrated to JSON and hydrated into another client, which is how
// server-prefetched data travels with a rendered page.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

type Key struct {
	Op     string
	Params string
}

func NewKey(op string, params ...string) Key {
	return Key{Op: op, Params: strings.Join(params, ",")}
}

func (k Key) String() string {
	return k.Op + ":" + k.Params
}

type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

func (r Result[T]) IsPending() bool { return r.Status == StatusPending }
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result[T]) IsError() bool   { return r.Status == StatusError }

// DehydratedState maps Key.String() to the JSON encoding of a successful result.
type DehydratedState map[string]json.RawMessage

const (
	DefaultGCTime       = 5 * time.Minute
	DefaultMaxEntries   = 10000
	DefaultFetchTimeout = 30 * time.Second
)

type entry struct {
	status    Status
	data      any
	raw       json.RawMessage
	err       error
	updatedAt time.Time
	lastUsed  time.Time
}

// flight is one upstream call for a key. Invalidate marks the running
// flight invalidated so its result is not stored.
type flight struct {
	invalidated bool
}

type Client struct {
	mu           sync.Mutex
	entries      map[string]*entry
	flights      map[string]*flight
	group        singleflight.Group
	staleTime    time.Duration
	gcTime       time.Duration
	maxEntries   int
	fetchTimeout time.Duration
	lastSweep    time.Time
	now          func() time.Time
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithGCTime sets how long an entry may go unread before it is dropped.
// Non-positive values keep the default.
func WithGCTime(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.gcTime = d
		}
	}
}

// WithMaxEntries bounds the number of cached keys.
func WithMaxEntries(n int) Option {
	return func(c *Client) { c.maxEntries = n }
}

// WithFetchTimeout bounds a shared upstream call, which outlives the
// request that started it.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

func NewClient(staleTime time.Duration, opts ...Option) *Client {
	c := &Client{
		entries:      make(map[string]*entry),
		flights:      make(map[string]*flight),
		staleTime:    staleTime,
		gcTime:       DefaultGCTime,
		maxEntries:   DefaultMaxEntries,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastSweep = c.now()
	return c
}

// Len reports the number of cached keys.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Observe reports the current state of key without fetching.
func Observe[T any](c *Client, key Key) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Result[T]{Status: StatusPending}
	}
	e.lastUsed = c.now()
	return resultOf[T](e)
}

// Fetch returns the cached result for key while it is fresh, otherwise it
// calls fn. Callers racing on the same key share a single call to fn.
// Failures are stored as-is and never retried here. The shared call is
// detached from ctx; a caller whose ctx ends stops waiting and gets ctx's
// error, which is not stored.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) Result[T] {
	k := key.String()
	if res, ok := fresh[T](c, k); ok {
		return res
	}

	ch := c.group.DoChan(k, func() (any, error) {
		fl := c.startFlight(k)
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		data, err := fn(fctx)
		c.store(k, fl, data, err)
		return data, err
	})

	var v any
	var err error
	select {
	case <-ctx.Done():
		return Result[T]{Status: StatusError, Err: ctx.Err(), UpdatedAt: c.now()}
	case r := <-ch:
		v, err = r.Val, r.Err
	}

	c.mu.Lock()
	updatedAt := c.now()
	if e, ok := c.entries[k]; ok {
		updatedAt = e.updatedAt
	}
	c.mu.Unlock()

	if err != nil {
		return Result[T]{Status: StatusError, Err: err, UpdatedAt: updatedAt}
	}
	data, _ := v.(T)
	return Result[T]{Status: StatusSuccess, Data: data, UpdatedAt: updatedAt}
}

// Invalidate drops key so the next Fetch goes upstream. A call for key
// already in flight still answers its waiters but no longer updates the cache.
func (c *Client) Invalidate(key Key) {
	k := key.String()
	c.mu.Lock()
	delete(c.entries, k)
	if fl, ok := c.flights[k]; ok {
		fl.invalidated = true
		delete(c.flights, k)
	}
	c.mu.Unlock()
	c.group.Forget(k)
}

// Dehydrate snapshots successful entries. With no keys every entry is included.
func (c *Client) Dehydrate(keys ...Key) (DehydratedState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := make(DehydratedState)
	add := func(k string, e *entry) error {
		if e.status != StatusSuccess {
			return nil
		}
		if e.raw != nil {
			state[k] = e.raw
			return nil
		}
		b, err := json.Marshal(e.data)
		if err != nil {
			return fmt.Errorf("dehydrate %s: %w", k, err)
		}
		state[k] = b
		return nil
	}

	if len(keys) == 0 {
		for k, e := range c.entries {
			if err := add(k, e); err != nil {
				return nil, err
			}
		}
		return state, nil
	}
	for _, key := range keys {
		k := key.String()
		if e, ok := c.entries[k]; ok {
			if err := add(k, e); err != nil {
				return nil, err
			}
		}
	}
	return state, nil
}

// Hydrate seeds the cache from a snapshot. A snapshot carries no timestamps,
// so entries that already hold data are kept and only missing or failed keys
// are filled. Values are decoded lazily on first read.
func (c *Client) Hydrate(state DehydratedState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, raw := range state {
		if e, ok := c.entries[k]; ok && e.status == StatusSuccess {
			continue
		}
		c.entries[k] = &entry{status: StatusSuccess, raw: raw, updatedAt: now, lastUsed: now}
	}
	c.evict(now)
}

func (c *Client) startFlight(k string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	fl := &flight{}
	c.flights[k] = fl
	return fl
}

func (c *Client) store(k string, fl *flight, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flights[k] == fl {
		delete(c.flights, k)
	}
	if fl.invalidated {
		return
	}

	now := c.now()
	e := &entry{updatedAt: now, lastUsed: now}
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = data
	}
	c.entries[k] = e
	c.evict(now)
}

// evict drops entries unread for gcTime, sweeping at most once per gcTime,
// and then the least recently read tenth while over maxEntries.
// Must be called with c.mu held.
func (c *Client) evict(now time.Time) {
	over := c.maxEntries > 0 && len(c.entries) > c.maxEntries
	if !over && now.Sub(c.lastSweep) < c.gcTime {
		return
	}

	c.lastSweep = now
	for k, e := range c.entries {
		if now.Sub(e.lastUsed) >= c.gcTime {
			delete(c.entries, k)
		}
	}
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].lastUsed.Before(c.entries[keys[j]].lastUsed)
	})
	toRemove := len(c.entries) - c.maxEntries + c.maxEntries/10
	for _, k := range keys[:min(toRemove, len(keys))] {
		delete(c.entries, k)
	}
}

func (c *Client) isStale(e *entry) bool {
	return c.now().Sub(e.updatedAt) >= c.staleTime
}

func fresh[T any](c *Client, k string) (Result[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok || e.status != StatusSuccess || c.isStale(e) {
		return Result[T]{}, false
	}
	e.lastUsed = c.now()
	res := resultOf[T](e)
	return res, res.IsSuccess()
}

// resultOf must be called with c.mu held.
func resultOf[T any](e *entry) Result[T] {
	switch e.status {
	case StatusError:
		return Result[T]{Status: StatusError, Err: e.err, UpdatedAt: e.updatedAt}
	case StatusSuccess:
		if e.raw != nil {
			var v T
			if err := json.Unmarshal(e.raw, &v); err != nil {
				return Result[T]{Status: StatusError, Err: fmt.Errorf("decode hydrated entry: %w", err), UpdatedAt: e.updatedAt}
			}
			e.data = v
			e.raw = nil
		}
		if e.data == nil {
			var zero T
			return Result[T]{Status: StatusSuccess, Data: zero, UpdatedAt: e.updatedAt}
		}
		v, ok := e.data.(T)
		if !ok {
			return Result[T]{Status: StatusError, Err: fmt.Errorf("cached value has type %T", e.data), UpdatedAt: e.updatedAt}
		}
		return Result[T]{Status: StatusSuccess, Data: v, UpdatedAt: e.updatedAt}
	default:
		return Result[T]{Status: StatusPending}
	}
}
