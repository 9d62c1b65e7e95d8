// Package gridgen fills a board with numbers for a level's category.
package gridgen

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
)

// Config holds configuration for grid generation
type Config struct {
	TargetDensity   float64 // probability that a cell is drawn as a match
	MaxDrawAttempts int     // rejection-sampling cap per cell
}

// DefaultConfig returns the classic tuning
func DefaultConfig() Config {
	return Config{
		TargetDensity:   0.4,
		MaxDrawAttempts: 32,
	}
}

// Validate checks the config for usable values
func (c Config) Validate() error {
	if c.TargetDensity < 0 || c.TargetDensity > 1 {
		return fmt.Errorf("target density must be in [0,1], got %v", c.TargetDensity)
	}
	if c.MaxDrawAttempts < 1 {
		return fmt.Errorf("max draw attempts must be positive, got %d", c.MaxDrawAttempts)
	}
	return nil
}

// Generator handles grid generation with deterministic RNG
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a new grid generator
func NewGenerator(config Config, rng *rand.Rand) *Generator {
	if config.MaxDrawAttempts < 1 {
		config.MaxDrawAttempts = DefaultConfig().MaxDrawAttempts
	}
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// Config returns the generator's configuration
func (g *Generator) Config() Config { return g.config }

// Generate creates a rows x cols board for the category. Every cell's
// Target flag equals rules.Matches(category, value) and the board always
// holds at least one target. It panics on a non-positive size or an
// invalid category; callers validate both up front.
func (g *Generator) Generate(rows, cols int, category rules.Category) *core.Board {
	if !common.IsValidGridSize(rows, cols) {
		panic(fmt.Sprintf("gridgen: %v: %dx%d", core.ErrInvalidGridSize, rows, cols))
	}
	if err := category.Validate(); err != nil {
		panic(fmt.Sprintf("gridgen: %v", err))
	}

	board := core.NewBoard(rows, cols)
	for idx := range board.Cells {
		wantMatch := g.rng.Float64() < g.config.TargetDensity
		v := g.drawValue(category, wantMatch)
		board.SetCell(board.PosOf(idx), core.Cell{
			Value:  v,
			Target: rules.Matches(category, v),
		})
	}

	g.ensureTarget(board, category)
	return board
}

// ensureTarget force-converts one random cell when the draw produced none
func (g *Generator) ensureTarget(b *core.Board, category rules.Category) {
	if b.TargetCount() > 0 {
		return
	}
	p := b.PosOf(g.rng.Intn(len(b.Cells)))
	b.SetCell(p, core.Cell{Value: CanonicalMatch(category), Target: true})
}

// drawValue rejection-samples a value of the requested polarity and falls
// back to a fixed value once the attempt cap is spent
func (g *Generator) drawValue(c rules.Category, wantMatch bool) int {
	for attempt := 0; attempt < g.config.MaxDrawAttempts; attempt++ {
		v, ok := g.sample(c, wantMatch)
		if !ok {
			break // empty range
		}
		if rules.Matches(c, v) == wantMatch {
			return v
		}
	}
	if wantMatch {
		return CanonicalMatch(c)
	}
	return fallbackNonMatch(c)
}

// sample draws one candidate from the category's value range. ok is
// false when the range is empty.
func (g *Generator) sample(c rules.Category, wantMatch bool) (v int, ok bool) {
	switch c.Kind {
	case rules.KindMultipleOf:
		if wantMatch {
			return c.Param * g.between(1, 12), true
		}
		return g.between(1, 50), true
	case rules.KindEven:
		if wantMatch {
			return 2 * g.between(1, 25), true
		}
		return 2*g.between(1, 25) - 1, true
	case rules.KindOdd:
		if wantMatch {
			return 2*g.between(1, 25) - 1, true
		}
		return 2 * g.between(1, 25), true
	case rules.KindPrime:
		if wantMatch {
			return smallPrimes[g.rng.Intn(len(smallPrimes))], true
		}
		return g.between(4, 50), true
	case rules.KindGreaterThan:
		if wantMatch {
			return g.between(c.Param+1, c.Param+25), true
		}
		if c.Param < 1 {
			return 0, false
		}
		return g.between(1, c.Param), true
	case rules.KindLessThan:
		if wantMatch {
			if c.Param-1 < 1 {
				return 0, false
			}
			return g.between(1, c.Param-1), true
		}
		return g.between(c.Param, c.Param+25), true
	}
	return 0, false
}

// between returns a uniform integer in [lo, hi], lo <= hi
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// smallPrimes keeps prime values presentable on a tile
var smallPrimes = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}

// CanonicalMatch is the simplest value satisfying the category
func CanonicalMatch(c rules.Category) int {
	switch c.Kind {
	case rules.KindMultipleOf:
		return c.Param
	case rules.KindEven:
		return 2
	case rules.KindOdd:
		return 1
	case rules.KindPrime:
		return 2
	case rules.KindGreaterThan:
		return c.Param + 1
	case rules.KindLessThan:
		return c.Param - 1
	}
	return 0
}

// fallbackNonMatch is the nearest value failing the category. For
// multiples of 1 no such value exists and the result matches.
func fallbackNonMatch(c rules.Category) int {
	switch c.Kind {
	case rules.KindMultipleOf:
		return c.Param + 1
	case rules.KindEven:
		return 1
	case rules.KindOdd:
		return 2
	case rules.KindPrime:
		return 4
	case rules.KindGreaterThan:
		return c.Param
	case rules.KindLessThan:
		return c.Param
	}
	return 0
}
