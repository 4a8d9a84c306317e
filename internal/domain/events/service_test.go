package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memEventsRepo struct {
	created []CreateParams
	updated map[string]UpdateParams
	events  map[string]*Event
}

func newMemEventsRepo() *memEventsRepo {
	return &memEventsRepo{
		updated: make(map[string]UpdateParams),
		events:  make(map[string]*Event),
	}
}

func (r *memEventsRepo) GetByID(ctx context.Context, id string) (*Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return event, nil
}

func (r *memEventsRepo) List(ctx context.Context) ([]Event, error) { return nil, nil }

func (r *memEventsRepo) Create(ctx context.Context, params CreateParams) (*Event, error) {
	if _, ok := r.events[params.ID]; ok {
		return nil, ErrConflict
	}
	r.created = append(r.created, params)
	event := &Event{
		ID:           params.ID,
		Title:        params.Title,
		Theme:        params.Theme,
		FullThemeURL: params.FullThemeURL,
		Description:  params.Description,
		Category:     params.Category,
		TeamSize:     params.TeamSize,
		Types:        params.Types,
		RubricURL:    params.RubricURL,
	}
	r.events[params.ID] = event
	return event, nil
}

func (r *memEventsRepo) Update(ctx context.Context, id string, params UpdateParams) (*Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.updated[id] = params
	return event, nil
}

func (r *memEventsRepo) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := r.events[id]
	delete(r.events, id)
	return ok, nil
}

func validInput() EventInput {
	return EventInput{
		ID:          "robotics",
		Title:       "Robotics",
		Theme:       "Design Problem",
		Description: "Design, build, and program a robot.",
		Category:    "Engineering",
		TeamSize:    "2-6 members",
		Types:       []string{"onsite challenge", "testing"},
		RubricURL:   "#",
	}
}

func TestCreateAcceptsValidInput(t *testing.T) {
	repo := newMemEventsRepo()
	service := NewService(repo)

	event, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "robotics", event.ID)
	require.Len(t, repo.created, 1)
	require.Equal(t, []string{"onsite challenge", "testing"}, repo.created[0].Types)
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	service := NewService(newMemEventsRepo())

	cases := []struct {
		name  string
		strip func(*EventInput)
	}{
		{"id", func(in *EventInput) { in.ID = "" }},
		{"title", func(in *EventInput) { in.Title = "" }},
		{"description", func(in *EventInput) { in.Description = "" }},
		{"category", func(in *EventInput) { in.Category = "" }},
		{"team size", func(in *EventInput) { in.TeamSize = "" }},
		{"types", func(in *EventInput) { in.Types = nil }},
		{"empty types", func(in *EventInput) { in.Types = []string{} }},
		{"rubric url", func(in *EventInput) { in.RubricURL = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.strip(&input)

			_, err := service.Create(context.Background(), input)
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCreateRejectsBadSlug(t *testing.T) {
	service := NewService(newMemEventsRepo())

	for _, id := range []string{"Robotics", "video game design", "robotics!", "-robotics"} {
		input := validInput()
		input.ID = id

		_, err := service.Create(context.Background(), input)
		var validationErr ValidationError
		require.ErrorAs(t, err, &validationErr, "id %q", id)
		require.Equal(t, "id", validationErr.Field)
	}
}

func TestCreateRejectsMalformedThemeURL(t *testing.T) {
	service := NewService(newMemEventsRepo())

	input := validInput()
	input.FullThemeURL = "not-a-url"

	_, err := service.Create(context.Background(), input)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateSurfacesConflict(t *testing.T) {
	service := NewService(newMemEventsRepo())

	_, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = service.Create(context.Background(), validInput())
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdatePassesPatchThrough(t *testing.T) {
	repo := newMemEventsRepo()
	service := NewService(repo)

	_, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	title := "Robotics Challenge"
	_, err = service.Update(context.Background(), "robotics", EventPatch{Title: &title})
	require.NoError(t, err)

	patch := repo.updated["robotics"]
	require.NotNil(t, patch.Title)
	require.Equal(t, "Robotics Challenge", *patch.Title)
	require.Nil(t, patch.Description)
}

func TestDeleteReportsExistence(t *testing.T) {
	repo := newMemEventsRepo()
	service := NewService(repo)

	_, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	existed, err := service.Delete(context.Background(), "robotics")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = service.Delete(context.Background(), "robotics")
	require.NoError(t, err)
	require.False(t, existed)
}
