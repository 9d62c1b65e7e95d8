package leaderboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock that advances one minute per call
func fixedClock() func() time.Time {
	t0 := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Minute)
	}
}

func newTestBoard(store Store, size int) *Board {
	b := NewBoard(store, size, zerolog.Nop())
	b.now = fixedClock()
	return b
}

func TestBoardKeepsTopTen(t *testing.T) {
	ctx := context.Background()
	board := newTestBoard(NewMemoryStore(), 0)
	assert.Equal(t, DefaultSize, board.Size())

	for i := 1; i <= 15; i++ {
		require.NoError(t, board.Record(ctx, "p", i*10, 1))
	}

	top, err := board.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 10)
	assert.Equal(t, 150, top[0].Score)
	assert.Equal(t, 60, top[9].Score)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}
}

func TestBoardTiesPreferEarlierDate(t *testing.T) {
	ctx := context.Background()
	board := newTestBoard(NewMemoryStore(), 10)

	require.NoError(t, board.Record(ctx, "first", 100, 2))
	require.NoError(t, board.Record(ctx, "second", 100, 3))
	require.NoError(t, board.Record(ctx, "low", 20, 1))

	top, err := board.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "first", top[0].Name)
	assert.Equal(t, "second", top[1].Name)
	assert.Equal(t, 3, top[1].Level)
}

func TestBoardBlankName(t *testing.T) {
	ctx := context.Background()
	board := newTestBoard(NewMemoryStore(), 10)

	require.NoError(t, board.Record(ctx, "   ", 10, 1))
	top, err := board.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, top[0].Name)
}

func TestBoardQualifies(t *testing.T) {
	ctx := context.Background()
	board := newTestBoard(NewMemoryStore(), 2)

	ok, err := board.Qualifies(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok, "empty board takes anything")

	require.NoError(t, board.Record(ctx, "a", 50, 1))
	require.NoError(t, board.Record(ctx, "b", 30, 1))

	ok, err = board.Qualifies(ctx, 30)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = board.Qualifies(ctx, 31)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoardWithoutStore(t *testing.T) {
	board := NewBoard(nil, 10, zerolog.Nop())
	assert.ErrorIs(t, board.Record(context.Background(), "x", 1, 1), ErrStoreNotConfigured)
	_, err := board.Top(context.Background())
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) ([]Entry, error) { return nil, f.err }
func (f failingStore) Save(context.Context, []Entry) error   { return f.err }

func TestBoardPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	board := NewBoard(failingStore{err: boom}, 10, zerolog.Nop())

	err := board.Record(context.Background(), "x", 1, 1)
	assert.ErrorIs(t, err, boom)
}

func TestBoardCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	board := NewBoard(NewMemoryStore(), 10, zerolog.Nop())
	assert.ErrorIs(t, board.Record(ctx, "x", 1, 1), context.Canceled)
}

func TestRank(t *testing.T) {
	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Name: "c", Score: 5, Date: day},
		{Name: "a", Score: 9, Date: day.Add(time.Hour)},
		{Name: "b", Score: 9, Date: day},
	}

	ranked := Rank(entries, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Name)
	assert.Equal(t, "a", ranked[1].Name)
}

func TestFormat(t *testing.T) {
	assert.Contains(t, Format(nil), "No high scores yet")

	out := Format([]Entry{{Name: "ada", Score: 340, Level: 3, Date: time.Date(2026, time.June, 9, 14, 5, 0, 0, time.UTC)}})
	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "340")
	assert.Contains(t, out, "2026-06-09 14:05")
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "leaderboard.json")
	store, err := NewFileStore(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	t.Run("missing file is empty", func(t *testing.T) {
		entries, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("round trip through a board", func(t *testing.T) {
		board := newTestBoard(store, 10)
		require.NoError(t, board.Record(ctx, "ada", 200, 2))
		require.NoError(t, board.Record(ctx, "bo", 400, 3))

		reopened, err := NewFileStore(path, zerolog.Nop())
		require.NoError(t, err)
		entries, err := reopened.Load(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "bo", entries[0].Name)
		assert.Equal(t, 400, entries[0].Score)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"name": "ada"`)
	})

	t.Run("corrupt file starts fresh", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		entries, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("path required", func(t *testing.T) {
		_, err := NewFileStore("", zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	in := []Entry{{Name: "a", Score: 1}}
	require.NoError(t, store.Save(ctx, in))
	in[0].Name = "mutated"

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", out[0].Name)
}
