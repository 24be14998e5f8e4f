package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/rpggio/leadagent/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSeedRepository_Create(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)
	ctx := context.Background()

	s := &seed.SeedURL{URL: "https://acme.com", Status: seed.StatusNotStarted}
	require.NoError(t, repo.Create(ctx, s))
	require.NotZero(t, s.ID)

	retrieved, err := repo.GetByURL(ctx, "https://acme.com")
	require.NoError(t, err)
	require.Equal(t, s.ID, retrieved.ID)
	require.Equal(t, seed.StatusNotStarted, retrieved.Status)
}

func TestSeedRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &seed.SeedURL{URL: "https://acme.com", Status: seed.StatusNotStarted}))

	err := repo.Create(ctx, &seed.SeedURL{URL: "https://acme.com", Status: seed.StatusNotStarted})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	seeds, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
}

func TestSeedRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)

	_, err := repo.GetByURL(context.Background(), "https://missing.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSeedRepository_DeleteByURL(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &seed.SeedURL{URL: "https://acme.com", Status: seed.StatusNotStarted}))
	require.NoError(t, repo.DeleteByURL(ctx, "https://acme.com"))

	// Deleting again is a no-op.
	require.NoError(t, repo.DeleteByURL(ctx, "https://acme.com"))

	seeds, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, seeds)
}

func TestSeedRepository_ListByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)
	ctx := context.Background()

	for _, u := range []string{"https://a.com", "https://b.com", "https://c.com"} {
		require.NoError(t, repo.Create(ctx, &seed.SeedURL{URL: u, Status: seed.StatusNotStarted}))
	}
	require.NoError(t, repo.UpdateStatus(ctx, "https://b.com", seed.StatusCompleted))

	pending, err := repo.ListByStatus(ctx, seed.StatusNotStarted)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "https://a.com", pending[0].URL)
	require.Equal(t, "https://c.com", pending[1].URL)

	done, err := repo.ListByStatus(ctx, seed.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
}

func TestSeedRepository_UpdateStatusNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSeedRepository(db)

	err := repo.UpdateStatus(context.Background(), "https://missing.com", seed.StatusFailed)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
