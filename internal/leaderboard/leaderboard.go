// Package leaderboard keeps the top finished games: append, sort by score,
// truncate. Storage is pluggable.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSize is how many entries a leaderboard keeps
const DefaultSize = 10

// DefaultName is recorded when a player gives no name
const DefaultName = "Anonymous"

var ErrStoreNotConfigured = errors.New("leaderboard store is not configured")

// Entry is one finished game
type Entry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Level int       `json:"level"`
	Date  time.Time `json:"date"`
}

// Store persists the ranked entry list
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// Board ranks entries over a Store. It is safe for concurrent use.
type Board struct {
	mu     sync.Mutex
	store  Store
	size   int
	now    func() time.Time
	logger zerolog.Logger
}

// NewBoard creates a leaderboard keeping at most size entries
func NewBoard(store Store, size int, logger zerolog.Logger) *Board {
	if size <= 0 {
		size = DefaultSize
	}
	return &Board{
		store:  store,
		size:   size,
		now:    time.Now,
		logger: logger.With().Str("component", "leaderboard").Logger(),
	}
}

// Size returns the maximum number of entries kept
func (b *Board) Size() int { return b.size }

// Record appends a finished game, re-ranks and keeps the top entries
func (b *Board) Record(ctx context.Context, name string, score, level int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b == nil || b.store == nil {
		return ErrStoreNotConfigured
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}

	entries = append(entries, Entry{
		Name:  name,
		Score: score,
		Level: level,
		Date:  b.now().UTC(),
	})
	entries = Rank(entries, b.size)

	if err := b.store.Save(ctx, entries); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}

	b.logger.Debug().
		Str("name", name).
		Int("score", score).
		Int("level", level).
		Int("entries", len(entries)).
		Msg("Score recorded")
	return nil
}

// Top returns the ranked entries
func (b *Board) Top(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil || b.store == nil {
		return nil, ErrStoreNotConfigured
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return Rank(entries, b.size), nil
}

// Qualifies reports whether score would earn a place on the board
func (b *Board) Qualifies(ctx context.Context, score int) (bool, error) {
	entries, err := b.Top(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) < b.size {
		return true, nil
	}
	return score > entries[len(entries)-1].Score, nil
}

// Rank sorts entries by score descending, earlier date first on ties, and
// truncates to size. The input slice is reordered in place.
func Rank(entries []Entry, size int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	if size > 0 && len(entries) > size {
		entries = entries[:size]
	}
	return entries
}

// Format renders entries as a fixed-width table
func Format(entries []Entry) string {
	if len(entries) == 0 {
		return "No high scores yet. Be the first to set one!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-5s%-15s%-10s%-7s%s\n", "Rank", "Name", "Score", "Level", "Date")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%-5d%-15s%-10d%-7d%s\n", i+1, e.Name, e.Score, e.Level, e.Date.Format("2006-01-02 15:04"))
	}
	return sb.String()
}
