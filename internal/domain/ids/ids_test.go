package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewULIDIsValid(t *testing.T) {
	id, err := NewULID()

	require.NoError(t, err)
	require.Len(t, id, 26)
	require.True(t, IsULID(id))
}

func TestULIDsSortByCreationTime(t *testing.T) {
	first, err := NewULID()
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := NewULID()
	require.NoError(t, err)

	require.Less(t, first, second)
}

func TestValidateULIDRejectsGarbage(t *testing.T) {
	require.Error(t, ValidateULID(""))
	require.Error(t, ValidateULID("not-a-ulid"))
	require.Error(t, ValidateULID("01HQZX3Y4K6F7G8H9J0K1M2N3"))
}

func TestValidateUUID(t *testing.T) {
	require.NoError(t, ValidateUUID(NewUUID()))
	require.Error(t, ValidateUUID("1234"))
}

func TestValidateSlug(t *testing.T) {
	require.NoError(t, ValidateSlug("video-game-design"))
	require.NoError(t, ValidateSlug("coding"))
	require.Error(t, ValidateSlug("Video Game Design"))
	require.Error(t, ValidateSlug("-leading"))
	require.Error(t, ValidateSlug(""))
}
