package adversary

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func TestCount(t *testing.T) {
	tests := []struct {
		level, limit, want int
	}{
		{1, 3, 1},
		{2, 3, 2},
		{3, 3, 3},
		{9, 3, 3},
		{4, 5, 4},
		{0, 3, 0},
		{2, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.level, tt.limit), "level %d limit %d", tt.level, tt.limit)
	}
}

func TestStep(t *testing.T) {
	player := core.Position{Row: 2, Col: 2}

	t.Run("closes the row gap", func(t *testing.T) {
		next := Step([]core.Position{{Row: 0, Col: 2}}, player, 5, 5)
		assert.Equal(t, []core.Position{{Row: 1, Col: 2}}, next)
	})

	t.Run("moves diagonally", func(t *testing.T) {
		next := Step([]core.Position{{Row: 4, Col: 0}}, player, 5, 5)
		assert.Equal(t, []core.Position{{Row: 3, Col: 1}}, next)
	})

	t.Run("stays on the player", func(t *testing.T) {
		next := Step([]core.Position{player}, player, 5, 5)
		assert.Equal(t, []core.Position{player}, next)
	})

	t.Run("adversaries may overlap", func(t *testing.T) {
		next := Step([]core.Position{{Row: 0, Col: 1}, {Row: 0, Col: 3}}, core.Position{Row: 4, Col: 2}, 5, 5)
		assert.Equal(t, []core.Position{{Row: 1, Col: 2}, {Row: 1, Col: 2}}, next)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		in := []core.Position{{Row: 0, Col: 0}}
		_ = Step(in, player, 5, 5)
		assert.Equal(t, core.Position{Row: 0, Col: 0}, in[0])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Step(nil, player, 5, 5))
	})
}

func TestStepDistanceProperty(t *testing.T) {
	rows, cols := 5, 5
	for pr := 0; pr < rows; pr++ {
		for pc := 0; pc < cols; pc++ {
			player := core.Position{Row: pr, Col: pc}
			for ar := 0; ar < rows; ar++ {
				for ac := 0; ac < cols; ac++ {
					a := core.Position{Row: ar, Col: ac}
					differing := 0
					if a.Row != player.Row {
						differing++
					}
					if a.Col != player.Col {
						differing++
					}

					next := Step([]core.Position{a}, player, rows, cols)[0]
					require.True(t, next.IsValid(rows, cols))
					assert.Equal(t, a.DistanceTo(player)-differing, next.DistanceTo(player),
						"adversary %s player %s", a, player)
				}
			}
		}
	}
}

func TestCaught(t *testing.T) {
	player := core.Position{Row: 1, Col: 1}
	assert.True(t, Caught([]core.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, player))
	assert.False(t, Caught([]core.Position{{Row: 0, Col: 1}}, player))
	assert.False(t, Caught(nil, player))
}

func TestSpawn(t *testing.T) {
	t.Run("respects distance and overlap", func(t *testing.T) {
		rng := newTestRNG()
		player := core.Position{Row: 2, Col: 2}
		for i := 0; i < 200; i++ {
			placed := Spawn(rng, 3, player, 5, 5)
			require.Len(t, placed, 3)
			seen := make(map[core.Position]bool)
			for _, p := range placed {
				assert.True(t, p.IsValid(5, 5))
				assert.GreaterOrEqual(t, p.DistanceTo(player), MinSpawnDistance)
				assert.False(t, seen[p], "duplicate spawn %s", p)
				seen[p] = true
			}
		}
	})

	t.Run("deterministic with fixed seed", func(t *testing.T) {
		player := core.Position{Row: 2, Col: 2}
		a := Spawn(newTestRNG(), 3, player, 5, 5)
		b := Spawn(newTestRNG(), 3, player, 5, 5)
		assert.Equal(t, a, b)
	})

	t.Run("row-major fallback fills a cramped grid", func(t *testing.T) {
		// 2x2 grid, player at (0,0): only (1,1) is far enough
		placed := Spawn(newTestRNG(), 3, core.Position{Row: 0, Col: 0}, 2, 2)
		assert.Equal(t, []core.Position{{Row: 1, Col: 1}}, placed)
	})

	t.Run("skips when no cell qualifies", func(t *testing.T) {
		placed := Spawn(newTestRNG(), 2, core.Position{Row: 0, Col: 0}, 1, 2)
		assert.Empty(t, placed)
	})

	t.Run("zero count", func(t *testing.T) {
		assert.Empty(t, Spawn(newTestRNG(), 0, core.Position{}, 5, 5))
	})
}
