package checkins

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("checkin not found")

// Checkin is a team's submission record: an ordered list of link strings
// captured at a point in time. Ids are ULIDs, so they sort by creation.
type Checkin struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Links       []string  `json:"links"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateParams struct {
	ID          string
	TeamID      string
	SubmittedAt time.Time
	Links       []string
}

type Repository interface {
	Insert(ctx context.Context, params CreateParams) (*Checkin, error)
	GetByID(ctx context.Context, id string) (*Checkin, error)

	// ListByTeam returns the team's checkins ordered by creation time
	// descending (newest first).
	ListByTeam(ctx context.Context, teamID string) ([]Checkin, error)

	// Delete removes the checkin and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
