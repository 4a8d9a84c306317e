package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stemleague/server/internal/domain/events"
)

var _ events.Repository = (*EventsRepository)(nil)

type eventRow struct {
	ID           string
	Title        string
	Theme        *string
	FullThemeURL *string
	Description  string
	Category     string
	TeamSize     string
	Types        []string
	RubricURL    string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

const eventColumns = `id, title, theme, full_theme_url, description, category, team_size, types, rubric_url, created_at, updated_at`

func (r *EventsRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventsRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	result := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		result = append(result, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return result, nil
}

func (r *EventsRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (id, title, theme, full_theme_url, description, category, team_size, types, rubric_url, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, now(), now())
RETURNING `+eventColumns+`
`, params.ID, params.Title, params.Theme, params.FullThemeURL, params.Description,
		params.Category, params.TeamSize, params.Types, params.RubricURL)

	event, err := scanEvent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, events.ErrConflict
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update patches the provided fields in one statement; nil parameters keep
// the current column value. The id itself is immutable.
func (r *EventsRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE events
   SET title          = COALESCE($2, title),
       theme          = COALESCE($3, theme),
       full_theme_url = COALESCE($4, full_theme_url),
       description    = COALESCE($5, description),
       category       = COALESCE($6, category),
       team_size      = COALESCE($7, team_size),
       types          = COALESCE($8::text[], types),
       rubric_url     = COALESCE($9, rubric_url),
       updated_at     = now()
 WHERE id = $1
RETURNING `+eventColumns+`
`, id, params.Title, params.Theme, params.FullThemeURL, params.Description,
		params.Category, params.TeamSize, params.Types, params.RubricURL)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventsRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var r eventRow
	if err := row.Scan(&r.ID, &r.Title, &r.Theme, &r.FullThemeURL, &r.Description,
		&r.Category, &r.TeamSize, &r.Types, &r.RubricURL, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &events.Event{
		ID:           r.ID,
		Title:        r.Title,
		Theme:        derefString(r.Theme),
		FullThemeURL: derefString(r.FullThemeURL),
		Description:  r.Description,
		Category:     r.Category,
		TeamSize:     r.TeamSize,
		Types:        r.Types,
		RubricURL:    r.RubricURL,
		CreatedAt:    timestamp(r.CreatedAt),
		UpdatedAt:    timestamp(r.UpdatedAt),
	}, nil
}
