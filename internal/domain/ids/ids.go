package ids

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ulidRegex = regexp.MustCompile(`(?i)^[0-9A-HJKMNP-TV-Z]{26}$`)
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	ErrInvalidULID = errors.New("invalid ULID")
	ErrInvalidUUID = errors.New("invalid UUID")
	ErrInvalidSlug = errors.New("invalid slug")
)

// NewULID generates a new ULID string. ULIDs sort lexicographically by
// creation time, which the check-in listing relies on.
func NewULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewUUID generates a random UUID string for user and team rows.
func NewUUID() string {
	return uuid.NewString()
}

// IsULID returns true when value is a valid ULID (case-insensitive Crockford Base32).
func IsULID(value string) bool {
	return ulidRegex.MatchString(strings.TrimSpace(value))
}

// ValidateULID validates a ULID string.
func ValidateULID(value string) error {
	if !IsULID(value) {
		return ErrInvalidULID
	}
	return nil
}

// ValidateUUID validates a UUID string in its canonical textual form.
func ValidateUUID(value string) error {
	if _, err := uuid.Parse(strings.TrimSpace(value)); err != nil {
		return ErrInvalidUUID
	}
	return nil
}

// ValidateSlug validates a lowercase hyphenated identifier such as the
// event ids seeded from the competition catalog ("video-game-design").
func ValidateSlug(value string) error {
	if !slugRegex.MatchString(strings.TrimSpace(value)) {
		return ErrInvalidSlug
	}
	return nil
}
