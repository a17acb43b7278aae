package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerRepository_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewViewerRepository()
	first := time.Unix(1_000, 0).UTC()
	second := time.Unix(1_300, 0).UTC()

	require.NoError(t, repo.Upsert(ctx, viewer.Viewer{GameID: "g1", UserID: "u1", Username: "old", LastSeen: first.Unix(), CreatedAt: first, UpdatedAt: first}))
	require.NoError(t, repo.Upsert(ctx, viewer.Viewer{GameID: "g1", UserID: "u1", Username: "new", LastSeen: second.Unix(), CreatedAt: second, UpdatedAt: second}))

	got, err := repo.ListActive(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Username)
	assert.Equal(t, second.Unix(), got[0].LastSeen)
	assert.True(t, got[0].CreatedAt.Equal(first))
}

func TestViewerRepository_ListActiveWindowAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewViewerRepository()
	for _, v := range []viewer.Viewer{
		{GameID: "g1", UserID: "late", LastSeen: 900},
		{GameID: "g1", UserID: "edge", LastSeen: 400},
		{GameID: "g1", UserID: "gone", LastSeen: 399},
		{GameID: "g2", UserID: "other", LastSeen: 950},
	} {
		require.NoError(t, repo.Upsert(ctx, v))
	}

	got, err := repo.ListActive(ctx, "g1", 400)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "edge", got[0].UserID)
	assert.Equal(t, "late", got[1].UserID)
}

func TestViewerRepository_Reap(t *testing.T) {
	ctx := context.Background()
	repo := NewViewerRepository()
	require.NoError(t, repo.Upsert(ctx, viewer.Viewer{GameID: "g1", UserID: "old", LastSeen: 10}))
	require.NoError(t, repo.Upsert(ctx, viewer.Viewer{GameID: "g1", UserID: "fresh", LastSeen: 100}))

	removed, err := repo.Reap(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := repo.ListActive(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].UserID)
}
