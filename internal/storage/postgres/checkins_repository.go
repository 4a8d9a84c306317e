package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stemleague/server/internal/domain/checkins"
)

var _ checkins.Repository = (*CheckinsRepository)(nil)

type checkinRow struct {
	ID          string
	TeamID      string
	SubmittedAt pgtype.Timestamptz
	Links       []string
	CreatedAt   pgtype.Timestamptz
}

const checkinColumns = `id, team_id, submitted_at, links, created_at`

func (r *CheckinsRepository) Insert(ctx context.Context, params checkins.CreateParams) (*checkins.Checkin, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO checkins (id, team_id, submitted_at, links, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING `+checkinColumns+`
`, params.ID, params.TeamID, params.SubmittedAt, params.Links)

	checkin, err := scanCheckin(row)
	if err != nil {
		return nil, fmt.Errorf("insert checkin: %w", err)
	}
	return checkin, nil
}

func (r *CheckinsRepository) GetByID(ctx context.Context, id string) (*checkins.Checkin, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+checkinColumns+`
  FROM checkins
 WHERE id = $1
`, id)

	checkin, err := scanCheckin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, checkins.ErrNotFound
		}
		return nil, fmt.Errorf("get checkin: %w", err)
	}
	return checkin, nil
}

func (r *CheckinsRepository) ListByTeam(ctx context.Context, teamID string) ([]checkins.Checkin, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+checkinColumns+`
  FROM checkins
 WHERE team_id = $1
 ORDER BY created_at DESC
`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	defer rows.Close()

	result := make([]checkins.Checkin, 0)
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		result = append(result, *checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkins: %w", err)
	}
	return result, nil
}

func (r *CheckinsRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checkins WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete checkin: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCheckin(row pgx.Row) (*checkins.Checkin, error) {
	var r checkinRow
	if err := row.Scan(&r.ID, &r.TeamID, &r.SubmittedAt, &r.Links, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &checkins.Checkin{
		ID:          r.ID,
		TeamID:      r.TeamID,
		SubmittedAt: timestamp(r.SubmittedAt),
		Links:       r.Links,
		CreatedAt:   timestamp(r.CreatedAt),
	}, nil
}
