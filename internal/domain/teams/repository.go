package teams

import (
	"context"
	"errors"
	"time"

	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/users"
)

var ErrNotFound = errors.New("team not found")

// Team is the hydrated composite view: the team row joined at request time
// with its event, captain, and resolved members. DroppedMembers counts
// membership rows whose user could not be resolved; those are omitted from
// Members rather than failing the read.
type Team struct {
	ID             string       `json:"id"`
	Event          *events.Event `json:"event"`
	TeamNumber     string       `json:"teamNumber"`
	Conference     string       `json:"conference"`
	Captain        *users.User  `json:"captain"`
	Members        []users.User `json:"members"`
	CheckInDate    string       `json:"checkInDate,omitempty"`
	DroppedMembers int          `json:"droppedMembers,omitempty"`
}

// Row is the normalized teams relation as stored.
type Row struct {
	ID          string
	EventID     string
	TeamNumber  string
	Conference  string
	CaptainID   string
	CheckInDate string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateRowParams struct {
	EventID     string
	TeamNumber  string
	Conference  string
	CaptainID   string
	CheckInDate string
}

// RowPatch updates individual scalar columns; nil means leave unchanged.
type RowPatch struct {
	EventID     *string
	TeamNumber  *string
	Conference  *string
	CaptainID   *string
	CheckInDate *string
}

// Repository is the persistence contract for the teams and team_members
// relations. Every method maps to exactly one statement against the store;
// there is no transactional grouping, so multi-step flows in the service
// (create with members, membership replacement, delete) interleave freely
// with concurrent writers.
type Repository interface {
	GetRow(ctx context.Context, id string) (*Row, error)
	ListIDs(ctx context.Context) ([]string, error)
	ListIDsByCaptain(ctx context.Context, userID string) ([]string, error)
	ListIDsByMember(ctx context.Context, userID string) ([]string, error)

	Insert(ctx context.Context, params CreateRowParams) (*Row, error)
	UpdateRow(ctx context.Context, id string, patch RowPatch) (*Row, error)

	// DeleteRow removes the team row and reports whether it existed.
	DeleteRow(ctx context.Context, id string) (bool, error)

	// ListMemberIDs returns the user ids linked to the team, duplicates
	// included (the join table carries no uniqueness constraint).
	ListMemberIDs(ctx context.Context, teamID string) ([]string, error)
	AddMember(ctx context.Context, teamID, userID string) error
	DeleteMembers(ctx context.Context, teamID string) error
}
