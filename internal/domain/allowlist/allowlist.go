package allowlist

import (
	"context"
	"strings"
	"time"
)

// Entry is an admitted email address. Presence in the allowlist grants
// admission; absence denies it. Emails are stored lowercase.
type Entry struct {
	Email   string    `json:"email"`
	AddedAt time.Time `json:"added_at"`
}

type Repository interface {
	Contains(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, email string) error

	// Remove deletes the entry and reports whether it existed.
	Remove(ctx context.Context, email string) (bool, error)

	// List returns entries ordered by when they were added, oldest first.
	List(ctx context.Context) ([]Entry, error)
}

// Service is the admission predicate over the allowlist, plus the admin
// management operations. It carries no session state.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsAllowed reports whether the email is admitted. Matching is
// case-insensitive.
func (s *Service) IsAllowed(ctx context.Context, email string) (bool, error) {
	return s.repo.Contains(ctx, normalize(email))
}

func (s *Service) Add(ctx context.Context, email string) error {
	return s.repo.Add(ctx, normalize(email))
}

func (s *Service) Remove(ctx context.Context, email string) (bool, error) {
	return s.repo.Remove(ctx, normalize(email))
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
