package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStateStoreConsumeIsOneShot(t *testing.T) {
	store := NewStateStore(time.Minute)

	state, err := store.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, state)

	require.True(t, store.Consume(state))
	require.False(t, store.Consume(state), "a nonce must not be redeemable twice")
}

func TestStateStoreRejectsUnknownState(t *testing.T) {
	store := NewStateStore(time.Minute)

	require.False(t, store.Consume("never-issued"))
	require.False(t, store.Consume(""))
}

func TestStateStoreRejectsExpiredState(t *testing.T) {
	store := NewStateStore(time.Minute)

	state, err := store.Issue()
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.False(t, store.Consume(state))
}

func TestStateStorePrunesExpiredEntries(t *testing.T) {
	store := NewStateStore(time.Minute)

	stale, err := store.Issue()
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = store.Issue()
	require.NoError(t, err)

	store.mu.Lock()
	_, staleKept := store.states[stale]
	store.mu.Unlock()
	require.False(t, staleKept, "expired nonce should be pruned on the next issue")
}

func TestStateStoreDistinctNonces(t *testing.T) {
	store := NewStateStore(time.Minute)

	a, err := store.Issue()
	require.NoError(t, err)
	b, err := store.Issue()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
