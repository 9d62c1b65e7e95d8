package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "leaderboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	day := time.Date(2026, time.March, 3, 9, 30, 0, 0, time.UTC)

	input := []leaderboard.Entry{
		{Name: "ada", Score: 120, Level: 2, Date: day},
		{Name: "bo", Score: 900, Level: 5, Date: day.Add(time.Hour)},
		{Name: "cy", Score: 120, Level: 1, Date: day.Add(-time.Hour)},
	}
	require.NoError(t, store.Save(ctx, input))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bo", got[0].Name)
	assert.Equal(t, "cy", got[1].Name, "earlier date wins the tie")
	assert.Equal(t, "ada", got[2].Name)
	assert.True(t, got[2].Date.Equal(day))

	require.NoError(t, store.Save(ctx, got[:1]))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "save replaces previous rows")
}

func TestStoreBehindBoard(t *testing.T) {
	store := openTempStore(t)
	board := leaderboard.NewBoard(store, 3, zerolog.Nop())
	ctx := context.Background()

	for i, score := range []int{50, 10, 70, 30, 90} {
		require.NoError(t, board.Record(ctx, "p", score, i+1))
	}

	top, err := board.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int{90, 70, 50}, []int{top[0].Score, top[1].Score, top[2].Score})
}

func TestCancelledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, nil), context.Canceled)
}

func TestNilStore(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Close())
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, leaderboard.ErrStoreNotConfigured)
}
