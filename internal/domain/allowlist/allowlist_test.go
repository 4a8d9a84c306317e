package allowlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memAllowlistRepo struct {
	entries map[string]time.Time
}

func newMemAllowlistRepo() *memAllowlistRepo {
	return &memAllowlistRepo{entries: make(map[string]time.Time)}
}

func (r *memAllowlistRepo) Contains(ctx context.Context, email string) (bool, error) {
	_, ok := r.entries[email]
	return ok, nil
}

func (r *memAllowlistRepo) Add(ctx context.Context, email string) error {
	if _, ok := r.entries[email]; !ok {
		r.entries[email] = time.Now()
	}
	return nil
}

func (r *memAllowlistRepo) Remove(ctx context.Context, email string) (bool, error) {
	_, ok := r.entries[email]
	delete(r.entries, email)
	return ok, nil
}

func (r *memAllowlistRepo) List(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0, len(r.entries))
	for email, addedAt := range r.entries {
		entries = append(entries, Entry{Email: email, AddedAt: addedAt})
	}
	return entries, nil
}

func TestAdmissionIsCaseInsensitive(t *testing.T) {
	repo := newMemAllowlistRepo()
	service := NewService(repo)

	require.NoError(t, service.Add(context.Background(), "Captain@Example.COM"))

	for _, email := range []string{
		"captain@example.com",
		"CAPTAIN@EXAMPLE.COM",
		"  captain@example.com  ",
	} {
		allowed, err := service.IsAllowed(context.Background(), email)
		require.NoError(t, err)
		require.True(t, allowed, "email %q", email)
	}

	allowed, err := service.IsAllowed(context.Background(), "stranger@example.com")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestEntriesStoredLowercase(t *testing.T) {
	repo := newMemAllowlistRepo()
	service := NewService(repo)

	require.NoError(t, service.Add(context.Background(), " Captain@Example.COM "))

	_, stored := repo.entries["captain@example.com"]
	require.True(t, stored)
	require.Len(t, repo.entries, 1)
}

func TestRemoveNormalizes(t *testing.T) {
	repo := newMemAllowlistRepo()
	service := NewService(repo)

	require.NoError(t, service.Add(context.Background(), "captain@example.com"))

	existed, err := service.Remove(context.Background(), "CAPTAIN@example.com")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = service.Remove(context.Background(), "captain@example.com")
	require.NoError(t, err)
	require.False(t, existed)
}
