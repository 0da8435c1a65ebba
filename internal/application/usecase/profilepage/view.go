package profilepage

import (
	"github.com/khoahotran/profile-pages/internal/application/service"
	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/query"
	"github.com/khoahotran/profile-pages/pkg/theme"
)

// PageState is the transient state of one page render.
type PageState struct {
	Result query.Result[*UserAndEventTypes]
	Theme  theme.Resolution
}

// NewPageState derives the theme from the fetched user. Until a user is
// loaded the theme stays pending.
func NewPageState(res query.Result[*UserAndEventTypes]) PageState {
	st := PageState{Result: res, Theme: theme.Pending()}
	if res.IsSuccess() && res.Data != nil && res.Data.User != nil {
		st.Theme = theme.Resolve(res.Data.User.Theme)
	}
	return st
}

// Select decides what a page shows for state.
func Select(state PageState, avatars service.AvatarResolver) page.View {
	res := state.Result
	switch {
	case res.IsPending():
		return page.View{Kind: page.ViewPlaceholder}
	case res.IsError():
		return page.View{Kind: page.ViewError}
	case res.Data == nil || res.Data.User == nil:
		return page.View{Kind: page.ViewNotFound}
	}

	u := res.Data.User
	username := u.Handle()
	name := u.DisplayName()

	avatarURL := ""
	if u.Avatar != nil && *u.Avatar != "" {
		avatarURL = avatars.AvatarURL(*u.Avatar)
	}

	head := &page.Head{
		Title:       name,
		Description: name,
		Name:        name,
		Avatar:      avatarURL,
	}

	if !state.Theme.Ready {
		return page.View{Kind: page.ViewHidden, Username: username, Head: head}
	}

	view := page.View{
		Kind:     page.ViewProfile,
		Username: username,
		Theme:    state.Theme.Mode,
		Head:     head,
		Header: &page.Header{
			AvatarURL:   avatarURL,
			DisplayName: name,
			Bio:         u.BioText(),
		},
	}

	if len(res.Data.EventTypes) == 0 {
		view.Empty = &page.EmptyState{Heading: page.EmptyHeading, Message: page.EmptyMessage}
		return view
	}

	view.Entries = make([]page.Entry, len(res.Data.EventTypes))
	for i, et := range res.Data.EventTypes {
		view.Entries[i] = page.Entry{
			ID:          et.ID,
			Title:       et.Title,
			Duration:    et.DurationLabel(),
			Label:       page.EventTypeLabel,
			Description: et.Description,
			Href:        page.BookingPath(username, et.Slug),
		}
	}
	return view
}
