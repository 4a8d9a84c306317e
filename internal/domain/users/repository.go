package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is an organizer or participant admitted through the allowlist.
// Rows are unique per Google identity and are never deleted; the login flow
// refreshes name/email/picture on every successful sign-in.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	GoogleID  string    `json:"google_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertParams carries the identity attributes refreshed on login.
type UpsertParams struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)

	// Upsert inserts a user keyed on the Google identity id, or refreshes
	// email/name/picture when the identity already exists. Implementations
	// must perform this as a single conditional statement so that two
	// concurrent first logins cannot both insert.
	Upsert(ctx context.Context, params UpsertParams) (*User, error)

	// List returns all users ordered by creation time ascending.
	List(ctx context.Context) ([]User, error)
}
