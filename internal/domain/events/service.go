package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stemleague/server/internal/domain/ids"
)

// EventInput is the wire shape for creating or updating an event. Field
// names follow the frontend's camelCase payloads.
type EventInput struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Theme        string   `json:"theme"`
	FullThemeURL string   `json:"fullThemeUrl" validate:"omitempty,url"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	TeamSize     string   `json:"teamSize" validate:"required"`
	Types        []string `json:"types" validate:"required,min=1,dive,required"`
	RubricURL    string   `json:"rubricUrl" validate:"required"`
}

// ValidationError reports a rejected input field.
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
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, input EventInput) (*Event, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, firstFieldError(err)
	}
	if err := ids.ValidateSlug(input.ID); err != nil {
		return nil, ValidationError{Field: "id", Message: "must be a lowercase hyphenated slug"}
	}

	return s.repo.Create(ctx, CreateParams{
		ID:           input.ID,
		Title:        input.Title,
		Theme:        input.Theme,
		FullThemeURL: input.FullThemeURL,
		Description:  input.Description,
		Category:     input.Category,
		TeamSize:     input.TeamSize,
		Types:        input.Types,
		RubricURL:    input.RubricURL,
	})
}

// EventPatch carries optional field updates; the event id itself is
// immutable and cannot be patched.
type EventPatch struct {
	Title        *string  `json:"title"`
	Theme        *string  `json:"theme"`
	FullThemeURL *string  `json:"fullThemeUrl"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	TeamSize     *string  `json:"teamSize"`
	Types        []string `json:"types"`
	RubricURL    *string  `json:"rubricUrl"`
}

func (s *Service) Update(ctx context.Context, id string, patch EventPatch) (*Event, error) {
	return s.repo.Update(ctx, id, UpdateParams{
		Title:        patch.Title,
		Theme:        patch.Theme,
		FullThemeURL: patch.FullThemeURL,
		Description:  patch.Description,
		Category:     patch.Category,
		TeamSize:     patch.TeamSize,
		Types:        patch.Types,
		RubricURL:    patch.RubricURL,
	})
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func firstFieldError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return ValidationError{Field: first.Field(), Message: "failed " + first.Tag() + " validation"}
	}
	return ValidationError{Message: err.Error()}
}
