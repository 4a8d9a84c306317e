package teams

import (
	"encoding/json"
	"fmt"
)

// Input is the normalized create/update payload for a team. Clients send
// either a flat record (event_id/captain_id/member_ids) or a nested record
// carrying embedded event/captain/member objects, from which only the id is
// taken. team_number and check_in_date additionally accept camelCase
// aliases. Nil fields were absent from the payload.
type Input struct {
	EventID     *string
	CaptainID   *string
	TeamNumber  *string
	Conference  *string
	CheckInDate *string
	MemberIDs   *[]string
}

// ValidationError reports a missing or malformed input field.
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

type embeddedRef struct {
	ID string `json:"id"`
}

type inputAliases struct {
	EventID          *string        `json:"event_id"`
	Event            *embeddedRef   `json:"event"`
	CaptainID        *string        `json:"captain_id"`
	Captain          *embeddedRef   `json:"captain"`
	TeamNumber       *string        `json:"team_number"`
	TeamNumberCamel  *string        `json:"teamNumber"`
	Conference       *string        `json:"conference"`
	CheckInDate      *string        `json:"check_in_date"`
	CheckInDateCamel *string        `json:"checkInDate"`
	MemberIDs        *[]string      `json:"member_ids"`
	MemberIDsCamel   *[]string      `json:"memberIds"`
	Members          *[]embeddedRef `json:"members"`
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var raw inputAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	in.EventID = raw.EventID
	if in.EventID == nil && raw.Event != nil {
		in.EventID = &raw.Event.ID
	}

	in.CaptainID = raw.CaptainID
	if in.CaptainID == nil && raw.Captain != nil {
		in.CaptainID = &raw.Captain.ID
	}

	in.TeamNumber = firstNonNil(raw.TeamNumber, raw.TeamNumberCamel)
	in.Conference = raw.Conference
	in.CheckInDate = firstNonNil(raw.CheckInDate, raw.CheckInDateCamel)

	in.MemberIDs = firstNonNil(raw.MemberIDs, raw.MemberIDsCamel)
	if in.MemberIDs == nil && raw.Members != nil {
		memberIDs := make([]string, 0, len(*raw.Members))
		for _, member := range *raw.Members {
			memberIDs = append(memberIDs, member.ID)
		}
		in.MemberIDs = &memberIDs
	}

	return nil
}

// requireCreateFields checks the fields the create path cannot do without.
func (in Input) requireCreateFields() error {
	if in.EventID == nil || *in.EventID == "" {
		return ValidationError{Field: "event_id", Message: "is required"}
	}
	if in.CaptainID == nil || *in.CaptainID == "" {
		return ValidationError{Field: "captain_id", Message: "is required"}
	}
	if in.TeamNumber == nil || *in.TeamNumber == "" {
		return ValidationError{Field: "team_number", Message: "is required"}
	}
	if in.Conference == nil || *in.Conference == "" {
		return ValidationError{Field: "conference", Message: "is required"}
	}
	return nil
}

func (in Input) hasScalarPatch() bool {
	return in.EventID != nil || in.CaptainID != nil || in.TeamNumber != nil ||
		in.Conference != nil || in.CheckInDate != nil
}

func firstNonNil[T any](values ...*T) *T {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}
