package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stemleague/server/internal/domain/allowlist"
)

var _ allowlist.Repository = (*AllowlistRepository)(nil)

func (r *AllowlistRepository) Contains(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM whitelist WHERE email = $1)
`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check whitelist: %w", err)
	}
	return exists, nil
}

// Add is idempotent: re-adding an existing email leaves its added_at alone.
func (r *AllowlistRepository) Add(ctx context.Context, email string) error {
	if _, err := r.pool.Exec(ctx, `
INSERT INTO whitelist (email, added_at) VALUES ($1, now())
ON CONFLICT (email) DO NOTHING
`, email); err != nil {
		return fmt.Errorf("add whitelist entry: %w", err)
	}
	return nil
}

func (r *AllowlistRepository) Remove(ctx context.Context, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM whitelist WHERE email = $1`, email)
	if err != nil {
		return false, fmt.Errorf("remove whitelist entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AllowlistRepository) List(ctx context.Context) ([]allowlist.Entry, error) {
	rows, err := r.pool.Query(ctx, `
SELECT email, added_at
  FROM whitelist
 ORDER BY added_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}
	defer rows.Close()

	result := make([]allowlist.Entry, 0)
	for rows.Next() {
		var email string
		var addedAt pgtype.Timestamptz
		if err := rows.Scan(&email, &addedAt); err != nil {
			return nil, fmt.Errorf("scan whitelist entry: %w", err)
		}
		result = append(result, allowlist.Entry{Email: email, AddedAt: timestamp(addedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whitelist: %w", err)
	}
	return result, nil
}
