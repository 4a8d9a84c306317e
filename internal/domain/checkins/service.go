package checkins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stemleague/server/internal/domain/ids"
	"github.com/stemleague/server/internal/validation"
)

// ValidationError reports a rejected checkin payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a checkin for the team. Links must be a non-empty ordered
// list of http(s) URLs; order is preserved as submitted. Membership
// authorization stays with the caller (teams.Service.IsMember).
func (s *Service) Create(ctx context.Context, teamID string, links []string) (*Checkin, error) {
	if len(links) == 0 {
		return nil, ValidationError{Field: "links", Message: "at least one link is required"}
	}
	for i, link := range links {
		if strings.TrimSpace(link) == "" {
			return nil, ValidationError{Field: "links", Message: fmt.Sprintf("link %d is empty", i)}
		}
		if err := validation.ValidateURL(link, "links"); err != nil {
			return nil, ValidationError{Field: "links", Message: fmt.Sprintf("link %d is not a valid URL", i)}
		}
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}

	return s.repo.Insert(ctx, CreateParams{
		ID:          id,
		TeamID:      teamID,
		SubmittedAt: s.now().UTC(),
		Links:       links,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*Checkin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForTeam(ctx context.Context, teamID string) ([]Checkin, error) {
	return s.repo.ListByTeam(ctx, teamID)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
