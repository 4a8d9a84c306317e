package teams

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

type memTeamsRepo struct {
	rows    map[string]*Row
	members map[string][]string
	nextID  int
}

func newMemTeamsRepo() *memTeamsRepo {
	return &memTeamsRepo{
		rows:    make(map[string]*Row),
		members: make(map[string][]string),
	}
}

func (r *memTeamsRepo) GetRow(ctx context.Context, id string) (*Row, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memTeamsRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memTeamsRepo) ListIDsByCaptain(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for id, row := range r.rows {
		if row.CaptainID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memTeamsRepo) ListIDsByMember(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for teamID, memberIDs := range r.members {
		for _, memberID := range memberIDs {
			if memberID == userID {
				ids = append(ids, teamID)
				break
			}
		}
	}
	return ids, nil
}

func (r *memTeamsRepo) Insert(ctx context.Context, params CreateRowParams) (*Row, error) {
	r.nextID++
	row := &Row{
		ID:          fmt.Sprintf("team-%d", r.nextID),
		EventID:     params.EventID,
		TeamNumber:  params.TeamNumber,
		Conference:  params.Conference,
		CaptainID:   params.CaptainID,
		CheckInDate: params.CheckInDate,
	}
	r.rows[row.ID] = row
	copied := *row
	return &copied, nil
}

func (r *memTeamsRepo) UpdateRow(ctx context.Context, id string, patch RowPatch) (*Row, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.EventID != nil {
		row.EventID = *patch.EventID
	}
	if patch.TeamNumber != nil {
		row.TeamNumber = *patch.TeamNumber
	}
	if patch.Conference != nil {
		row.Conference = *patch.Conference
	}
	if patch.CaptainID != nil {
		row.CaptainID = *patch.CaptainID
	}
	if patch.CheckInDate != nil {
		row.CheckInDate = *patch.CheckInDate
	}
	copied := *row
	return &copied, nil
}

func (r *memTeamsRepo) DeleteRow(ctx context.Context, id string) (bool, error) {
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *memTeamsRepo) ListMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	return append([]string(nil), r.members[teamID]...), nil
}

func (r *memTeamsRepo) AddMember(ctx context.Context, teamID, userID string) error {
	r.members[teamID] = append(r.members[teamID], userID)
	return nil
}

func (r *memTeamsRepo) DeleteMembers(ctx context.Context, teamID string) error {
	delete(r.members, teamID)
	return nil
}

type memEventsRepo struct {
	events map[string]*events.Event
}

func (r *memEventsRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return event, nil
}

func (r *memEventsRepo) List(ctx context.Context) ([]events.Event, error) { return nil, nil }
func (r *memEventsRepo) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	return nil, nil
}
func (r *memEventsRepo) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	return nil, events.ErrNotFound
}
func (r *memEventsRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

type memUsersRepo struct {
	users map[string]*users.User
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user, nil
}

func (r *memUsersRepo) Upsert(ctx context.Context, params users.UpsertParams) (*users.User, error) {
	return nil, nil
}

func (r *memUsersRepo) List(ctx context.Context) ([]users.User, error) { return nil, nil }

type fixture struct {
	service *Service
	teams   *memTeamsRepo
	events  *memEventsRepo
	users   *memUsersRepo
}

func newFixture() *fixture {
	teamsRepo := newMemTeamsRepo()
	eventsRepo := &memEventsRepo{events: map[string]*events.Event{
		"robotics": {ID: "robotics", Title: "Robotics"},
	}}
	usersRepo := &memUsersRepo{users: map[string]*users.User{
		"cap":   {ID: "cap", Email: "cap@example.com", Name: "Captain"},
		"alice": {ID: "alice", Email: "alice@example.com", Name: "Alice"},
		"bob":   {ID: "bob", Email: "bob@example.com", Name: "Bob"},
	}}
	return &fixture{
		service: NewService(teamsRepo, eventsRepo, usersRepo, zerolog.Nop()),
		teams:   teamsRepo,
		events:  eventsRepo,
		users:   usersRepo,
	}
}

func strp(s string) *string { return &s }

func createInput(members ...string) Input {
	return Input{
		EventID:    strp("robotics"),
		CaptainID:  strp("cap"),
		TeamNumber: strp("1234"),
		Conference: strp("North"),
		MemberIDs:  &members,
	}
}

func TestCreateAndGetHydratesCompositeView(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice", "bob"))
	require.NoError(t, err)

	require.Equal(t, "robotics", team.Event.ID)
	require.Equal(t, "Robotics", team.Event.Title)
	require.Equal(t, "cap", team.Captain.ID)
	require.Equal(t, "1234", team.TeamNumber)
	require.Equal(t, "North", team.Conference)
	require.Len(t, team.Members, 2)
	require.Equal(t, "alice", team.Members[0].ID)
	require.Equal(t, "bob", team.Members[1].ID)
	require.Zero(t, team.DroppedMembers)

	got, err := f.service.Get(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
	require.Len(t, got.Members, 2)
}

func TestCreateRoundTripsCamelCaseAliases(t *testing.T) {
	f := newFixture()

	input := decodeInput(t, `{
		"event_id": "robotics",
		"captain_id": "cap",
		"teamNumber": "1234",
		"conference": "North",
		"checkInDate": "2026-03-14",
		"memberIds": ["alice"]
	}`)

	team, err := f.service.Create(context.Background(), input)
	require.NoError(t, err)

	got, err := f.service.Get(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, "1234", got.TeamNumber)
	require.Equal(t, "North", got.Conference)
	require.Equal(t, "2026-03-14", got.CheckInDate)
}

func TestCreateRequiresMandatoryFields(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name  string
		strip func(*Input)
		field string
	}{
		{"event", func(in *Input) { in.EventID = nil }, "event_id"},
		{"captain", func(in *Input) { in.CaptainID = nil }, "captain_id"},
		{"team number", func(in *Input) { in.TeamNumber = strp("") }, "team_number"},
		{"conference", func(in *Input) { in.Conference = nil }, "conference"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := createInput()
			tc.strip(&input)

			_, err := f.service.Create(context.Background(), input)
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestGetDropsUnresolvableMembers(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice", "bob"))
	require.NoError(t, err)

	delete(f.users.users, "bob")

	got, err := f.service.Get(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	require.Equal(t, "alice", got.Members[0].ID)
	require.Equal(t, 1, got.DroppedMembers)
}

func TestGetFailsWhenEventMissing(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	delete(f.events.events, "robotics")

	_, err = f.service.Get(context.Background(), team.ID)
	require.Error(t, err)
}

func TestGetFailsWhenCaptainMissing(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	delete(f.users.users, "cap")

	_, err = f.service.Get(context.Background(), team.ID)
	require.Error(t, err)
}

func TestListHydratesEveryTeam(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), createInput("bob"))
	require.NoError(t, err)

	list, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestListForUserUnionsCaptainAndMemberRoles(t *testing.T) {
	f := newFixture()

	captained, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	joined, err := f.service.Create(context.Background(), Input{
		EventID:    strp("robotics"),
		CaptainID:  strp("alice"),
		TeamNumber: strp("9999"),
		Conference: strp("South"),
		MemberIDs:  &[]string{"cap"},
	})
	require.NoError(t, err)

	list, err := f.service.ListForUser(context.Background(), "cap")
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := map[string]bool{}
	for _, team := range list {
		ids[team.ID] = true
	}
	require.True(t, ids[captained.ID])
	require.True(t, ids[joined.ID])
}

func TestListForUserDeduplicatesCaptainMembership(t *testing.T) {
	f := newFixture()

	// The captain also appears as a member of their own team.
	team, err := f.service.Create(context.Background(), createInput("cap", "alice"))
	require.NoError(t, err)

	list, err := f.service.ListForUser(context.Background(), "cap")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, team.ID, list[0].ID)
}

func TestUpdateReplacesMembershipWholesale(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), team.ID, Input{
		MemberIDs: &[]string{"bob"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Members, 1)
	require.Equal(t, "bob", updated.Members[0].ID)

	memberIDs, err := f.teams.ListMemberIDs(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, memberIDs)
}

func TestMembershipReplacementIsIdempotent(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)

	roster := Input{MemberIDs: &[]string{"alice", "bob"}}
	_, err = f.service.Update(context.Background(), team.ID, roster)
	require.NoError(t, err)
	updated, err := f.service.Update(context.Background(), team.ID, roster)
	require.NoError(t, err)

	require.Len(t, updated.Members, 2)
	memberIDs, err := f.teams.ListMemberIDs(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, memberIDs)
}

func TestUpdateWithEmptyMemberListClearsMembership(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice", "bob"))
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), team.ID, Input{
		MemberIDs: &[]string{},
	})
	require.NoError(t, err)
	require.Empty(t, updated.Members)
}

func TestUpdatePatchesScalarsWithoutTouchingMembers(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), team.ID, Input{
		Conference: strp("West"),
	})
	require.NoError(t, err)
	require.Equal(t, "West", updated.Conference)
	require.Equal(t, "1234", updated.TeamNumber)
	require.Len(t, updated.Members, 1)
}

func TestUpdateNoOpReturnsCurrentView(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), team.ID, Input{})
	require.NoError(t, err)
	require.Equal(t, team.ID, updated.ID)
	require.Equal(t, "North", updated.Conference)
	require.Len(t, updated.Members, 1)
}

type failingMemberRepo struct {
	*memTeamsRepo
	failFor string
}

func (r *failingMemberRepo) AddMember(ctx context.Context, teamID, userID string) error {
	if userID == r.failFor {
		return fmt.Errorf("insert member %s: connection reset", userID)
	}
	return r.memTeamsRepo.AddMember(ctx, teamID, userID)
}

func TestCreatePartialMemberFailureLeavesPartialState(t *testing.T) {
	teamsRepo := &failingMemberRepo{memTeamsRepo: newMemTeamsRepo(), failFor: "bob"}
	eventsRepo := &memEventsRepo{events: map[string]*events.Event{
		"robotics": {ID: "robotics", Title: "Robotics"},
	}}
	usersRepo := &memUsersRepo{users: map[string]*users.User{
		"cap":   {ID: "cap"},
		"alice": {ID: "alice"},
	}}
	service := NewService(teamsRepo, eventsRepo, usersRepo, zerolog.Nop())

	_, err := service.Create(context.Background(), createInput("alice", "bob"))
	require.Error(t, err)

	// The team row and the members inserted before the failure stay behind.
	require.Len(t, teamsRepo.rows, 1)
	memberIDs, err := teamsRepo.ListMemberIDs(context.Background(), "team-1")
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, memberIDs)
}

func TestUpdateMissingTeam(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), "no-such-team", Input{Conference: strp("West")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesMembersThenRow(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice", "bob"))
	require.NoError(t, err)

	existed, err := f.service.Delete(context.Background(), team.ID)
	require.NoError(t, err)
	require.True(t, existed)

	memberIDs, err := f.teams.ListMemberIDs(context.Background(), team.ID)
	require.NoError(t, err)
	require.Empty(t, memberIDs)

	_, err = f.service.Get(context.Background(), team.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingTeam(t *testing.T) {
	f := newFixture()

	existed, err := f.service.Delete(context.Background(), "no-such-team")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestIsMember(t *testing.T) {
	f := newFixture()

	team, err := f.service.Create(context.Background(), createInput("alice"))
	require.NoError(t, err)

	captain, err := f.service.IsMember(context.Background(), "cap", team.ID)
	require.NoError(t, err)
	require.True(t, captain)

	member, err := f.service.IsMember(context.Background(), "alice", team.ID)
	require.NoError(t, err)
	require.True(t, member)

	outsider, err := f.service.IsMember(context.Background(), "bob", team.ID)
	require.NoError(t, err)
	require.False(t, outsider)

	missing, err := f.service.IsMember(context.Background(), "cap", "no-such-team")
	require.NoError(t, err)
	require.False(t, missing)
}
