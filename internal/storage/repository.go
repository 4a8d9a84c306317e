package storage

import (
	"github.com/stemleague/server/internal/domain/allowlist"
	"github.com/stemleague/server/internal/domain/checkins"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/teams"
	"github.com/stemleague/server/internal/domain/users"
)

// Repository groups data access by domain. Every repository method executes
// as a single atomic statement; there is deliberately no multi-statement
// transaction primitive here, so services composing several calls must
// tolerate interleaving and partial completion.
type Repository interface {
	Users() users.Repository
	Events() events.Repository
	Teams() teams.Repository
	Checkins() checkins.Repository
	Allowlist() allowlist.Repository
}
