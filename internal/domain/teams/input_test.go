package teams

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeInput(t *testing.T, payload string) Input {
	t.Helper()
	var input Input
	require.NoError(t, json.Unmarshal([]byte(payload), &input))
	return input
}

func TestInputDecodesFlatSnakeCase(t *testing.T) {
	input := decodeInput(t, `{
		"event_id": "robotics",
		"captain_id": "cap",
		"team_number": "1234",
		"conference": "North",
		"check_in_date": "2026-03-14",
		"member_ids": ["alice", "bob"]
	}`)

	require.Equal(t, "robotics", *input.EventID)
	require.Equal(t, "cap", *input.CaptainID)
	require.Equal(t, "1234", *input.TeamNumber)
	require.Equal(t, "North", *input.Conference)
	require.Equal(t, "2026-03-14", *input.CheckInDate)
	require.Equal(t, []string{"alice", "bob"}, *input.MemberIDs)
}

func TestInputDecodesCamelCaseAliases(t *testing.T) {
	input := decodeInput(t, `{
		"event_id": "robotics",
		"captain_id": "cap",
		"teamNumber": "1234",
		"conference": "North",
		"checkInDate": "2026-03-14",
		"memberIds": ["alice"]
	}`)

	require.Equal(t, "1234", *input.TeamNumber)
	require.Equal(t, "2026-03-14", *input.CheckInDate)
	require.Equal(t, []string{"alice"}, *input.MemberIDs)
}

func TestInputDecodesNestedObjects(t *testing.T) {
	input := decodeInput(t, `{
		"event": {"id": "robotics", "title": "Robotics"},
		"captain": {"id": "cap", "email": "cap@example.com"},
		"teamNumber": "1234",
		"conference": "North",
		"members": [{"id": "alice"}, {"id": "bob"}]
	}`)

	require.Equal(t, "robotics", *input.EventID)
	require.Equal(t, "cap", *input.CaptainID)
	require.Equal(t, []string{"alice", "bob"}, *input.MemberIDs)
}

func TestInputFlatFieldsWinOverNested(t *testing.T) {
	input := decodeInput(t, `{
		"event_id": "coding",
		"event": {"id": "robotics"},
		"captain_id": "cap",
		"member_ids": ["alice"],
		"members": [{"id": "bob"}]
	}`)

	require.Equal(t, "coding", *input.EventID)
	require.Equal(t, []string{"alice"}, *input.MemberIDs)
}

func TestInputAbsentFieldsStayNil(t *testing.T) {
	input := decodeInput(t, `{"conference": "North"}`)

	require.Nil(t, input.EventID)
	require.Nil(t, input.CaptainID)
	require.Nil(t, input.TeamNumber)
	require.Nil(t, input.CheckInDate)
	require.Nil(t, input.MemberIDs)
	require.NotNil(t, input.Conference)
}

func TestInputEmptyMemberListIsPresent(t *testing.T) {
	input := decodeInput(t, `{"member_ids": []}`)

	require.NotNil(t, input.MemberIDs)
	require.Empty(t, *input.MemberIDs)
}
