package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stemleague/server/internal/domain/ids"
	"github.com/stemleague/server/internal/domain/teams"
)

var _ teams.Repository = (*TeamsRepository)(nil)

type teamRow struct {
	ID          string
	EventID     string
	TeamNumber  string
	Conference  string
	CaptainID   string
	CheckInDate *string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

const teamColumns = `id, event_id, team_number, conference, captain_id, check_in_date, created_at, updated_at`

func (r *TeamsRepository) GetRow(ctx context.Context, id string) (*teams.Row, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+teamColumns+`
  FROM teams
 WHERE id = $1
`, id)

	team, err := scanTeamRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, teams.ErrNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

func (r *TeamsRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.queryIDs(ctx, `SELECT id FROM teams`)
}

func (r *TeamsRepository) ListIDsByCaptain(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT id FROM teams WHERE captain_id = $1`, userID)
}

func (r *TeamsRepository) ListIDsByMember(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT team_id FROM team_members WHERE user_id = $1`, userID)
}

func (r *TeamsRepository) Insert(ctx context.Context, params teams.CreateRowParams) (*teams.Row, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO teams (id, event_id, team_number, conference, captain_id, check_in_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now(), now())
RETURNING `+teamColumns+`
`, ids.NewUUID(), params.EventID, params.TeamNumber, params.Conference, params.CaptainID, params.CheckInDate)

	team, err := scanTeamRow(row)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return team, nil
}

// UpdateRow patches the provided columns in one statement; nil keeps the
// current value.
func (r *TeamsRepository) UpdateRow(ctx context.Context, id string, patch teams.RowPatch) (*teams.Row, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE teams
   SET event_id      = COALESCE($2, event_id),
       team_number   = COALESCE($3, team_number),
       conference    = COALESCE($4, conference),
       captain_id    = COALESCE($5, captain_id),
       check_in_date = COALESCE($6, check_in_date),
       updated_at    = now()
 WHERE id = $1
RETURNING `+teamColumns+`
`, id, patch.EventID, patch.TeamNumber, patch.Conference, patch.CaptainID, patch.CheckInDate)

	team, err := scanTeamRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, teams.ErrNotFound
		}
		return nil, fmt.Errorf("update team: %w", err)
	}
	return team, nil
}

func (r *TeamsRepository) DeleteRow(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete team: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TeamsRepository) ListMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT user_id FROM team_members WHERE team_id = $1`, teamID)
}

func (r *TeamsRepository) AddMember(ctx context.Context, teamID, userID string) error {
	if _, err := r.pool.Exec(ctx, `
INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
`, teamID, userID); err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

func (r *TeamsRepository) DeleteMembers(ctx context.Context, teamID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("delete team members: %w", err)
	}
	return nil
}

func (r *TeamsRepository) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query team ids: %w", err)
	}
	defer rows.Close()

	result := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team id: %w", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team ids: %w", err)
	}
	return result, nil
}

func scanTeamRow(row pgx.Row) (*teams.Row, error) {
	var r teamRow
	if err := row.Scan(&r.ID, &r.EventID, &r.TeamNumber, &r.Conference, &r.CaptainID,
		&r.CheckInDate, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &teams.Row{
		ID:          r.ID,
		EventID:     r.EventID,
		TeamNumber:  r.TeamNumber,
		Conference:  r.Conference,
		CaptainID:   r.CaptainID,
		CheckInDate: derefString(r.CheckInDate),
		CreatedAt:   timestamp(r.CreatedAt),
		UpdatedAt:   timestamp(r.UpdatedAt),
	}, nil
}
