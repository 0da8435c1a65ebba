package page

import (
	"net/http"
	"time"

	"github.com/khoahotran/profile-pages/pkg/theme"
)

// ViewKind is the branch a profile page renders.
type ViewKind int

const (
	// ViewPlaceholder: data not loaded yet, a bare "..." with no layout.
	ViewPlaceholder ViewKind = iota
	// ViewError: the fetch failed.
	ViewError
	// ViewNotFound: the fetch succeeded but no such user exists.
	ViewNotFound
	// ViewHidden: data loaded but the theme is not resolved, nothing visible.
	ViewHidden
	// ViewProfile: header plus either the event type list or the empty state.
	ViewProfile
)

func (k ViewKind) String() string {
	switch k {
	case ViewPlaceholder:
		return "placeholder"
	case ViewError:
		return "error"
	case ViewNotFound:
		return "not_found"
	case ViewHidden:
		return "hidden"
	case ViewProfile:
		return "profile"
	}
	return "unknown"
}

func (k ViewKind) HTTPStatus() int {
	switch k {
	case ViewError:
		return http.StatusInternalServerError
	case ViewNotFound:
		return http.StatusNotFound
	}
	return http.StatusOK
}

const (
	EventTypeLabel  = "1-on-1"
	EmptyHeading    = "Uh oh!"
	EmptyMessage    = "This user hasn't set up any event types yet."
	PlaceholderText = "..."
	NotFoundHeading = "User not found"
	NotFoundMessage = "No one here goes by that name."
	ErrorHeading    = "Something went wrong"
	ErrorMessage    = "This page could not be loaded. Please try again later."
)

// Head is the SEO metadata of a page.
type Head struct {
	Title       string
	Description string
	Name        string
	Avatar      string
}

type Header struct {
	AvatarURL   string
	DisplayName string
	Bio         string
}

// Entry is one event type as listed on the profile.
type Entry struct {
	ID          int64
	Title       string
	Duration    string
	Label       string
	Description string
	Href        string
}

type EmptyState struct {
	Heading string
	Message string
}

// View is everything the renderer needs. For ViewProfile exactly one of
// Entries and Empty is set.
type View struct {
	Kind     ViewKind
	Username string
	Theme    theme.Mode
	Head     *Head
	Header   *Header
	Entries  []Entry
	Empty    *EmptyState

	// Props is embedded in the page as JSON for client-side hydration.
	Props any
	// RefreshAfter asks the browser to reload a placeholder page.
	RefreshAfter time.Duration
}
