package http

import (
	"github.com/google/uuid"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/internal/domain/eventtype"
	"github.com/khoahotran/profile-pages/internal/domain/user"
)

// UsernameURI binds the {username} route segment.
type UsernameURI struct {
	Username string `uri:"username" binding:"required,max=64"`
}

type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username *string   `json:"username"`
	Name     *string   `json:"name"`
	Bio      *string   `json:"bio"`
	Avatar   *string   `json:"avatar"`
	Theme    *string   `json:"theme"`
}

type EventTypeDTO struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Length      int    `json:"length"`
	Description string `json:"description"`
}

type UserAndEventTypesDTO struct {
	User       UserDTO        `json:"user"`
	EventTypes []EventTypeDTO `json:"eventTypes"`
}

type RevalidateResponse struct {
	Username string `json:"username"`
	Queued   bool   `json:"queued"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
		Theme:    u.Theme,
	}
}

func ToEventTypeDTO(et *eventtype.EventType) EventTypeDTO {
	return EventTypeDTO{
		ID:          et.ID,
		Slug:        et.Slug,
		Title:       et.Title,
		Length:      et.Length,
		Description: et.Description,
	}
}

func ToUserAndEventTypesDTO(data *profilepage.UserAndEventTypes) UserAndEventTypesDTO {
	dto := UserAndEventTypesDTO{
		User:       ToUserDTO(data.User),
		EventTypes: make([]EventTypeDTO, len(data.EventTypes)),
	}
	for i, et := range data.EventTypes {
		dto.EventTypes[i] = ToEventTypeDTO(et)
	}
	return dto
}
