package main

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
)

func grid(rows, cols int, targets ...core.Position) [][]game.CellView {
	g := make([][]game.CellView, rows)
	for r := range g {
		g[r] = make([]game.CellView, cols)
	}
	for _, p := range targets {
		g[p.Row][p.Col].Target = true
	}
	return g
}

func TestNextDirectionHeadsForNearestTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	tests := []struct {
		name    string
		player  core.Position
		targets []core.Position
		want    core.Direction
	}{
		{"above", core.NewPosition(2, 2), []core.Position{core.NewPosition(0, 2)}, core.Up},
		{"below first", core.NewPosition(2, 2), []core.Position{core.NewPosition(3, 4)}, core.Down},
		{"left on same row", core.NewPosition(2, 2), []core.Position{core.NewPosition(2, 0)}, core.Left},
		{"nearest wins", core.NewPosition(2, 2), []core.Position{core.NewPosition(0, 0), core.NewPosition(2, 3)}, core.Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := game.Snapshot{Player: tt.player, Grid: grid(5, 5, tt.targets...)}
			assert.Equal(t, tt.want, nextDirection(s, rng))
		})
	}
}

func TestNextAction(t *testing.T) {
	s := game.Snapshot{Player: core.NewPosition(1, 1), Grid: grid(3, 3, core.NewPosition(1, 1))}
	assert.Equal(t, actionMunch, nextAction(s))

	s.Grid[1][1].Munched = true
	assert.Equal(t, actionMove, nextAction(s))
}

func TestLocalSessionBotScores(t *testing.T) {
	require.NoError(t, config.Init(""))
	ctx := context.Background()
	s, err := newLocalSession(ctx, config.Get(), 12345, zerolog.Nop())
	require.NoError(t, err)

	snap, err := s.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, states.PhasePlaying, snap.Phase)

	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 20 && snap.Phase == states.PhasePlaying; i++ {
		if nextAction(snap) == actionMunch {
			snap, err = s.Munch(ctx)
		} else {
			snap, err = s.Move(ctx, nextDirection(snap, rng))
		}
		require.NoError(t, err)
	}
	assert.Positive(t, snap.Score)
}
