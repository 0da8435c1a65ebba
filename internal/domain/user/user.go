package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// User is the public side of an account. Every optional column is a pointer
// so a missing value is never confused with an empty one.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username *string   `json:"username"`
	Name     *string   `json:"name"`
	Bio      *string   `json:"bio"`
	Avatar   *string   `json:"avatar"`
	Theme    *string   `json:"theme"`
}

// Handle is the username, or "" when none is set.
func (u *User) Handle() string {
	if u == nil || u.Username == nil {
		return ""
	}
	return *u.Username
}

// DisplayName is the name when one is set and non-empty, otherwise the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Handle()
}

func (u *User) BioText() string {
	if u == nil || u.Bio == nil {
		return ""
	}
	return *u.Bio
}

type Repository interface {
	// ListUsernames returns the username column of every user, NULLs included.
	ListUsernames(ctx context.Context) ([]*string, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
