package page

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CachedPage is one generated profile page as stored between requests.
type CachedPage struct {
	Path        string    `json:"path"`
	Username    string    `json:"username"`
	Status      int       `json:"status"`
	HTML        []byte    `json:"html"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Stale reports whether the page is due for regeneration.
func (p *CachedPage) Stale(now time.Time, revalidate time.Duration) bool {
	return now.Sub(p.GeneratedAt) >= revalidate
}

// Age is the whole seconds elapsed since generation, as sent in the Age header.
func (p *CachedPage) Age(now time.Time) int {
	age := int(now.Sub(p.GeneratedAt) / time.Second)
	if age < 0 {
		return 0
	}
	return age
}

type Cache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, path string) (*CachedPage, error)
	Set(ctx context.Context, p *CachedPage, ttl time.Duration) error
	Delete(ctx context.Context, path string) error
}

// FallbackMode decides what happens to a path that was not generated ahead of time.
type FallbackMode string

const (
	// FallbackTrue serves a placeholder and generates the page in the background.
	FallbackTrue FallbackMode = "true"
	// FallbackBlocking generates the page while the request waits.
	FallbackBlocking FallbackMode = "blocking"
	// FallbackFalse answers not found.
	FallbackFalse FallbackMode = "false"
)

func ParseFallbackMode(s string) (FallbackMode, error) {
	switch FallbackMode(strings.ToLower(strings.TrimSpace(s))) {
	case FallbackTrue, "":
		return FallbackTrue, nil
	case FallbackBlocking:
		return FallbackBlocking, nil
	case FallbackFalse:
		return FallbackFalse, nil
	}
	return "", fmt.Errorf("unknown fallback mode %q", s)
}

type Params struct {
	User string `json:"user"`
}

// Path is one routable profile page.
type Path struct {
	Params Params `json:"params"`
}

func (p Path) String() string {
	return ProfilePath(p.Params.User)
}

type Paths struct {
	Paths    []Path       `json:"paths"`
	Fallback FallbackMode `json:"fallback"`
}

func ProfilePath(username string) string {
	return "/" + username
}

// BookingPath links an event type to its booking page.
func BookingPath(username, slug string) string {
	return "/" + username + "/" + slug
}
