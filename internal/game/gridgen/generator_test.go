package gridgen

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return testutil.NewTestRNG(testutil.DefaultSeed)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 0.4, config.TargetDensity)
	assert.Equal(t, 32, config.MaxDrawAttempts)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{TargetDensity: -0.1, MaxDrawAttempts: 1}.Validate())
	assert.Error(t, Config{TargetDensity: 1.5, MaxDrawAttempts: 1}.Validate())
	assert.Error(t, Config{TargetDensity: 0.4, MaxDrawAttempts: 0}.Validate())
}

func TestNewGenerator(t *testing.T) {
	config := DefaultConfig()
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.Config())
	assert.Same(t, rng, generator.rng)

	zeroed := NewGenerator(Config{TargetDensity: 0.4}, rng)
	assert.Equal(t, 32, zeroed.Config().MaxDrawAttempts, "zero attempt cap falls back to the default")
}

func TestGenerateInvariants(t *testing.T) {
	categories := append(rules.DefaultPool(),
		rules.MultipleOf(1),
		rules.MultipleOf(7),
		rules.LessThan(1),
		rules.LessThan(2),
		rules.LessThan(-10),
		rules.GreaterThan(0),
		rules.GreaterThan(-5),
		rules.GreaterThan(1000),
	)

	generator := NewGenerator(DefaultConfig(), newTestRNG())
	for _, c := range categories {
		t.Run(c.String(), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				board := generator.Generate(5, 5, c)
				require.Len(t, board.Cells, 25)
				assert.GreaterOrEqual(t, board.TargetCount(), 1)
				assert.Equal(t, board.TargetCount(), board.RemainingCount())
				assert.Equal(t, board.TargetCount(), testutil.CountTargets(board))
				for _, cell := range board.Cells {
					require.Equal(t, rules.Matches(c, cell.Value), cell.Target,
						"value %d flagged %v for %s", cell.Value, cell.Target, c)
				}
			}
		})
	}
}

func TestGenerateValueRanges(t *testing.T) {
	generator := NewGenerator(DefaultConfig(), newTestRNG())

	t.Run("multiples stay presentable", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			for _, cell := range generator.Generate(5, 5, rules.MultipleOf(4)).Cells {
				assert.GreaterOrEqual(t, cell.Value, 1)
				assert.LessOrEqual(t, cell.Value, 50)
			}
		}
	})

	t.Run("primes from the small list", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			for _, cell := range generator.Generate(5, 5, rules.Prime()).Cells {
				if cell.Target {
					assert.Contains(t, smallPrimes, cell.Value)
				} else {
					assert.GreaterOrEqual(t, cell.Value, 4)
					assert.LessOrEqual(t, cell.Value, 50)
				}
			}
		}
	})

	t.Run("greater than window", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			for _, cell := range generator.Generate(5, 5, rules.GreaterThan(25)).Cells {
				assert.GreaterOrEqual(t, cell.Value, 1)
				assert.LessOrEqual(t, cell.Value, 50)
			}
		}
	})
}

func TestGenerateDegenerateCategories(t *testing.T) {
	t.Run("less than 1 has no drawable match", func(t *testing.T) {
		generator := NewGenerator(DefaultConfig(), newTestRNG())
		board := generator.Generate(5, 5, rules.LessThan(1))
		for _, cell := range board.Cells {
			if cell.Target {
				assert.Equal(t, 0, cell.Value, "match falls back to t-1")
			} else {
				assert.GreaterOrEqual(t, cell.Value, 1)
			}
		}
	})

	t.Run("multiples of 1 relax to all targets", func(t *testing.T) {
		generator := NewGenerator(DefaultConfig(), newTestRNG())
		board := generator.Generate(5, 5, rules.MultipleOf(1))
		assert.Equal(t, 25, board.TargetCount())
	})

	t.Run("greater than 0 non-match falls back to t", func(t *testing.T) {
		generator := NewGenerator(Config{TargetDensity: 0, MaxDrawAttempts: 4}, newTestRNG())
		board := generator.Generate(3, 3, rules.GreaterThan(0))
		nonTargets := 0
		for _, cell := range board.Cells {
			if !cell.Target {
				nonTargets++
				assert.Equal(t, 0, cell.Value)
			}
		}
		assert.Equal(t, 8, nonTargets, "exactly one cell is forced into a target")
	})
}

func TestGenerateForcesOneTarget(t *testing.T) {
	generator := NewGenerator(Config{TargetDensity: 0, MaxDrawAttempts: 32}, newTestRNG())

	for _, c := range rules.DefaultPool() {
		t.Run(c.String(), func(t *testing.T) {
			board := generator.Generate(5, 5, c)
			require.Equal(t, 1, board.TargetCount())
			target := board.Remaining()[0]
			cell, ok := board.Cell(target)
			require.True(t, ok)
			assert.Equal(t, CanonicalMatch(c), cell.Value)
		})
	}
}

func TestGenerateFullDensity(t *testing.T) {
	generator := NewGenerator(Config{TargetDensity: 1, MaxDrawAttempts: 32}, newTestRNG())

	board := generator.Generate(4, 6, rules.Odd())
	assert.Equal(t, 24, board.TargetCount())
	assert.Equal(t, 4, board.Rows)
	assert.Equal(t, 6, board.Cols)
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(DefaultConfig(), newTestRNG()).Generate(5, 5, rules.Prime())
	b := NewGenerator(DefaultConfig(), newTestRNG()).Generate(5, 5, rules.Prime())

	assert.Equal(t, a.Cells, b.Cells)
	assert.Equal(t, a.Remaining(), b.Remaining())
}

func TestGenerateDensity(t *testing.T) {
	generator := NewGenerator(DefaultConfig(), newTestRNG())

	total, targets := 0, 0
	for i := 0; i < 400; i++ {
		board := generator.Generate(5, 5, rules.MultipleOf(3))
		total += len(board.Cells)
		targets += board.TargetCount()
	}
	ratio := float64(targets) / float64(total)
	// non-match draws from [1,50] are rejection-sampled, so the ratio sits near 0.4
	assert.InDelta(t, 0.4, ratio, 0.05)
}

func TestGeneratePanicsOnInvalidInput(t *testing.T) {
	generator := NewGenerator(DefaultConfig(), newTestRNG())

	testutil.AssertPanic(t, func() { generator.Generate(0, 5, rules.Even()) }, "invalid grid size")
	testutil.AssertPanic(t, func() { generator.Generate(5, 5, rules.MultipleOf(0)) }, "invalid category")
	testutil.AssertPanic(t, func() { generator.Generate(5, 5, rules.GreaterThan(math.MaxInt)) }, "invalid category")
	testutil.AssertPanic(t, func() { generator.Generate(5, 51, rules.Even()) }, "invalid grid size")
}

func TestGenerateExtremeThresholds(t *testing.T) {
	generator := NewGenerator(DefaultConfig(), newTestRNG())

	for _, c := range []rules.Category{
		rules.GreaterThan(rules.MaxParam),
		rules.GreaterThan(-rules.MaxParam),
		rules.LessThan(rules.MaxParam),
		rules.LessThan(-rules.MaxParam),
		rules.MultipleOf(rules.MaxParam),
	} {
		t.Run(c.String(), func(t *testing.T) {
			board := generator.Generate(6, 6, c)
			assert.GreaterOrEqual(t, board.TargetCount(), 1)
			for _, cell := range board.Cells {
				assert.Equal(t, rules.Matches(c, cell.Value), cell.Target)
			}
		})
	}
}

func TestCanonicalMatch(t *testing.T) {
	for _, c := range append(rules.DefaultPool(), rules.LessThan(1), rules.GreaterThan(-3)) {
		assert.True(t, rules.Matches(c, CanonicalMatch(c)), c.String())
	}
}
