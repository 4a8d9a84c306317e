package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemleague/server/internal/domain/allowlist"
	"github.com/stemleague/server/internal/domain/checkins"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/teams"
	"github.com/stemleague/server/internal/domain/users"
	"github.com/stemleague/server/internal/storage"
)

var _ storage.Repository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Users() users.Repository {
	return &UsersRepository{pool: r.pool}
}

func (r *Repository) Events() events.Repository {
	return &EventsRepository{pool: r.pool}
}

func (r *Repository) Teams() teams.Repository {
	return &TeamsRepository{pool: r.pool}
}

func (r *Repository) Checkins() checkins.Repository {
	return &CheckinsRepository{pool: r.pool}
}

func (r *Repository) Allowlist() allowlist.Repository {
	return &AllowlistRepository{pool: r.pool}
}

type UsersRepository struct {
	pool *pgxpool.Pool
}

type EventsRepository struct {
	pool *pgxpool.Pool
}

type TeamsRepository struct {
	pool *pgxpool.Pool
}

type CheckinsRepository struct {
	pool *pgxpool.Pool
}

type AllowlistRepository struct {
	pool *pgxpool.Pool
}
