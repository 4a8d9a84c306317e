package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stemleague/server/internal/domain/ids"
	"github.com/stemleague/server/internal/domain/users"
)

var _ users.Repository = (*UsersRepository)(nil)

type userRow struct {
	ID        string
	Email     string
	Name      string
	Picture   *string
	GoogleID  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const userColumns = `id, email, name, picture, google_id, created_at, updated_at`

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE id = $1
`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Upsert is a single conditional statement keyed on google_id, so two
// concurrent first logins by the same identity cannot both insert.
func (r *UsersRepository) Upsert(ctx context.Context, params users.UpsertParams) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, email, name, picture, google_id, created_at, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, now(), now())
ON CONFLICT (google_id) DO UPDATE
   SET email      = EXCLUDED.email,
       name       = EXCLUDED.name,
       picture    = EXCLUDED.picture,
       updated_at = now()
RETURNING `+userColumns+`
`, ids.NewUUID(), params.Email, params.Name, params.Picture, params.GoogleID)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func (r *UsersRepository) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
  FROM users
 ORDER BY created_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	result := make([]users.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return result, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var r userRow
	if err := row.Scan(&r.ID, &r.Email, &r.Name, &r.Picture, &r.GoogleID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &users.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Picture:   derefString(r.Picture),
		GoogleID:  r.GoogleID,
		CreatedAt: timestamp(r.CreatedAt),
		UpdatedAt: timestamp(r.UpdatedAt),
	}, nil
}
