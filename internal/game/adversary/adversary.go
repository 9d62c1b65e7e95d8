// Package adversary moves and places the troggles that chase the player.
package adversary

import (
	"math/rand"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

const (
	// MinSpawnDistance is the closest an adversary may spawn to the player (Manhattan)
	MinSpawnDistance = 2
	// SpawnAttempts bounds the random placement tries per adversary
	SpawnAttempts = 50
	// DefaultCap is the most adversaries a level holds
	DefaultCap = 3
)

// Count returns how many adversaries a level gets: min(level, limit)
func Count(level, limit int) int {
	if level < 0 {
		level = 0
	}
	if limit < 0 {
		limit = 0
	}
	return common.Min(level, limit)
}

// Step moves every adversary one cell toward the player on each axis that
// differs, so a diagonal step is possible. Results are clamped to the grid.
// The input slice is left untouched.
func Step(adversaries []core.Position, player core.Position, rows, cols int) []core.Position {
	next := make([]core.Position, len(adversaries))
	for i, a := range adversaries {
		dRow := common.Sign(player.Row - a.Row)
		dCol := common.Sign(player.Col - a.Col)
		next[i] = a.Add(dRow, dCol).Clamp(rows, cols)
	}
	return next
}

// Caught reports whether any adversary shares the player's cell
func Caught(adversaries []core.Position, player core.Position) bool {
	for _, a := range adversaries {
		if a.Equal(player) {
			return true
		}
	}
	return false
}

// Spawn places up to count adversaries at least MinSpawnDistance from the
// player and never two on the same cell. Each adversary gets SpawnAttempts
// random draws, then a row-major scan; if no cell qualifies it is skipped.
func Spawn(rng *rand.Rand, count int, player core.Position, rows, cols int) []core.Position {
	placed := make([]core.Position, 0, count)
	if rows <= 0 || cols <= 0 {
		return placed
	}

	valid := func(p core.Position) bool {
		if p.DistanceTo(player) < MinSpawnDistance {
			return false
		}
		for _, other := range placed {
			if other.Equal(p) {
				return false
			}
		}
		return true
	}

	for n := 0; n < count; n++ {
		if p, ok := findSpawn(rng, rows, cols, valid); ok {
			placed = append(placed, p)
		}
	}
	return placed
}

func findSpawn(rng *rand.Rand, rows, cols int, valid func(core.Position) bool) (core.Position, bool) {
	for attempt := 0; attempt < SpawnAttempts; attempt++ {
		p := core.Position{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		if valid(p) {
			return p, true
		}
	}

	// Fallback: first qualifying cell in row-major order
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := core.Position{Row: row, Col: col}
			if valid(p) {
				return p, true
			}
		}
	}
	return core.Position{}, false
}
