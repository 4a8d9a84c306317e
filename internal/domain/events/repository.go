package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

var ErrConflict = errors.New("event already exists")

// Event is a competition category (Animatronics, Coding, Webmaster, ...).
// The id is a caller-supplied slug and is immutable once created; every
// other field may be changed by an organizer.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Theme        string    `json:"theme,omitempty"`
	FullThemeURL string    `json:"fullThemeUrl,omitempty"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	TeamSize     string    `json:"teamSize"`
	Types        []string  `json:"types"`
	RubricURL    string    `json:"rubricUrl"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

type CreateParams struct {
	ID           string
	Title        string
	Theme        string
	FullThemeURL string
	Description  string
	Category     string
	TeamSize     string
	Types        []string
	RubricURL    string
}

// UpdateParams patches individual fields; nil means leave unchanged.
type UpdateParams struct {
	Title        *string
	Theme        *string
	FullThemeURL *string
	Description  *string
	Category     *string
	TeamSize     *string
	Types        []string
	RubricURL    *string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Event, error)

	// List returns all events ordered by id descending.
	List(ctx context.Context) ([]Event, error)

	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)

	// Delete removes the event row and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
