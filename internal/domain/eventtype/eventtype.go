package eventtype

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// EventType is a reusable meeting template a user can be booked into.
type EventType struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Length      int       `json:"length"`
	Description string    `json:"description"`
	Hidden      bool      `json:"hidden"`
	Position    int       `json:"position"`
}

// DurationLabel renders the length in minutes, e.g. "30m".
func (e *EventType) DurationLabel() string {
	return strconv.Itoa(e.Length) + "m"
}

type Repository interface {
	// ListPublicByUserID returns the user's non-hidden event types ordered by
	// position (highest first) then ID.
	ListPublicByUserID(ctx context.Context, userID uuid.UUID) ([]*EventType, error)
}
