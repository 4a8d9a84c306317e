package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/users"
)

// Service assembles composite team views from the normalized relations and
// applies the multi-statement write flows. The store offers no transactions,
// so every flow here is a plain sequence of single-statement calls; partial
// failure leaves partial state behind and is surfaced as an error.
type Service struct {
	repo   Repository
	events events.Repository
	users  users.Repository
	logger zerolog.Logger
}

func NewService(repo Repository, eventsRepo events.Repository, usersRepo users.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventsRepo,
		users:  usersRepo,
		logger: logger.With().Str("component", "teams").Logger(),
	}
}

// Get hydrates a team: the team row, then its event, captain, and members,
// each an independent read. There is no snapshot isolation across the
// fan-out; a concurrent write between reads can produce a view mixing
// points in time. Membership rows whose user no longer resolves are
// dropped and counted rather than failing the read.
func (s *Service) Get(ctx context.Context, id string) (*Team, error) {
	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, row)
}

func (s *Service) hydrate(ctx context.Context, row *Row) (*Team, error) {
	event, err := s.events.GetByID(ctx, row.EventID)
	if err != nil {
		return nil, fmt.Errorf("hydrate team %s: event %s: %w", row.ID, row.EventID, err)
	}

	captain, err := s.users.GetByID(ctx, row.CaptainID)
	if err != nil {
		return nil, fmt.Errorf("hydrate team %s: captain %s: %w", row.ID, row.CaptainID, err)
	}

	memberIDs, err := s.repo.ListMemberIDs(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("hydrate team %s: members: %w", row.ID, err)
	}

	members := make([]users.User, 0, len(memberIDs))
	dropped := 0
	for _, memberID := range memberIDs {
		member, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				dropped++
				continue
			}
			return nil, fmt.Errorf("hydrate team %s: member %s: %w", row.ID, memberID, err)
		}
		members = append(members, *member)
	}
	if dropped > 0 {
		s.logger.Warn().
			Str("team_id", row.ID).
			Int("dropped_members", dropped).
			Msg("membership rows reference missing users")
	}

	return &Team{
		ID:             row.ID,
		Event:          event,
		TeamNumber:     row.TeamNumber,
		Conference:     row.Conference,
		Captain:        captain,
		Members:        members,
		CheckInDate:    row.CheckInDate,
		DroppedMembers: dropped,
	}, nil
}

// List hydrates every team, one fan-out per team. O(n) round trips to the
// store, accepted for the catalog sizes this serves.
func (s *Service) List(ctx context.Context) ([]Team, error) {
	teamIDs, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return s.hydrateAll(ctx, teamIDs)
}

// ListForUser returns every team where the user is captain or member,
// deduplicated by id. Result ordering is unspecified.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Team, error) {
	captainIDs, err := s.repo.ListIDsByCaptain(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams for user %s: %w", userID, err)
	}
	memberIDs, err := s.repo.ListIDsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams for user %s: %w", userID, err)
	}

	seen := make(map[string]struct{}, len(captainIDs)+len(memberIDs))
	union := make([]string, 0, len(captainIDs)+len(memberIDs))
	for _, id := range append(captainIDs, memberIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}

	return s.hydrateAll(ctx, union)
}

func (s *Service) hydrateAll(ctx context.Context, teamIDs []string) ([]Team, error) {
	teams := make([]Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		team, err := s.Get(ctx, id)
		if err != nil {
			// A team deleted between the id listing and its hydration is
			// not an error for the listing as a whole.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, nil
}

// Create inserts the team row, then one membership row per member id. The
// statements are independent: a failure partway through leaves the team
// with a subset of its intended members, which is reported as an error
// while the partial state stays in the store.
func (s *Service) Create(ctx context.Context, input Input) (*Team, error) {
	if err := input.requireCreateFields(); err != nil {
		return nil, err
	}

	row, err := s.repo.Insert(ctx, CreateRowParams{
		EventID:     *input.EventID,
		TeamNumber:  *input.TeamNumber,
		Conference:  *input.Conference,
		CaptainID:   *input.CaptainID,
		CheckInDate: deref(input.CheckInDate),
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	if input.MemberIDs != nil {
		for _, memberID := range *input.MemberIDs {
			if err := s.repo.AddMember(ctx, row.ID, memberID); err != nil {
				return nil, fmt.Errorf("create team %s: add member %s: %w", row.ID, memberID, err)
			}
		}
	}

	return s.hydrate(ctx, row)
}

// Update patches provided scalar fields with a single statement and, when a
// member list is provided, replaces membership wholesale: delete all rows,
// then insert the new set. The replacement is not safe against a concurrent
// membership mutation on the same team, and a concurrent reader can observe
// a momentarily empty member list. With nothing to change it is a no-op
// that still returns the current hydrated team.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Team, error) {
	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.hasScalarPatch() {
		row, err = s.repo.UpdateRow(ctx, id, RowPatch{
			EventID:     input.EventID,
			TeamNumber:  input.TeamNumber,
			Conference:  input.Conference,
			CaptainID:   input.CaptainID,
			CheckInDate: input.CheckInDate,
		})
		if err != nil {
			return nil, fmt.Errorf("update team %s: %w", id, err)
		}
	}

	if input.MemberIDs != nil {
		if err := s.repo.DeleteMembers(ctx, id); err != nil {
			return nil, fmt.Errorf("update team %s: clear members: %w", id, err)
		}
		for _, memberID := range *input.MemberIDs {
			if err := s.repo.AddMember(ctx, id, memberID); err != nil {
				return nil, fmt.Errorf("update team %s: add member %s: %w", id, memberID, err)
			}
		}
	}

	return s.hydrate(ctx, row)
}

// Delete removes membership rows first, then the team row, and reports
// whether the team row existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.repo.DeleteMembers(ctx, id); err != nil {
		return false, fmt.Errorf("delete team %s: clear members: %w", id, err)
	}
	existed, err := s.repo.DeleteRow(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete team %s: %w", id, err)
	}
	return existed, nil
}

// IsMember reports whether the user is the team's captain or appears in its
// hydrated member list. This reuses the full hydration fan-out; a direct
// membership lookup would skip the event and captain reads, but the shared
// path keeps the membership definition in one place.
func (s *Service) IsMember(ctx context.Context, userID, teamID string) (bool, error) {
	team, err := s.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if team.Captain != nil && team.Captain.ID == userID {
		return true, nil
	}
	for _, member := range team.Members {
		if member.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
