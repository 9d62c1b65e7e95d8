package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
)

func TestRenderSnapshots(t *testing.T) {
	t.Run("no board", func(t *testing.T) {
		out := Render(Snapshot{Phase: states.PhaseIdle, Lives: 3}, false, false)
		assert.Contains(t, out, "(no board)")
		assert.Contains(t, out, "Idle")
	})

	t.Run("marks player adversaries and munched cells", func(t *testing.T) {
		s := Snapshot{
			Phase:            states.PhasePlaying,
			Category:         "Even Numbers",
			Score:            10,
			Lives:            2,
			Level:            1,
			Rows:             2,
			Cols:             2,
			Player:           core.NewPosition(0, 0),
			Adversaries:      []core.Position{core.NewPosition(1, 1)},
			RemainingTargets: 1,
			Grid: [][]CellView{
				{{Value: 4, Target: true}, {Value: 6, Munched: true, Target: true}},
				{{Value: 7}, {Value: 9}},
			},
		}

		out := Render(s, false, false)
		lines := strings.Split(out, "\n")
		assert.Contains(t, lines[0], "Even Numbers")
		assert.Contains(t, lines[0], "Score: 10")
		assert.Contains(t, lines[1], "[4]")
		assert.Contains(t, lines[1], "--")
		assert.Contains(t, lines[2], "<9>")
		assert.Contains(t, out, "remaining: 1")
		assert.NotContains(t, out, ColorReset)
	})

	t.Run("color output uses ansi codes", func(t *testing.T) {
		s := Snapshot{
			Rows: 1, Cols: 2,
			Player: core.NewPosition(0, 1),
			Grid:   [][]CellView{{{Value: 8, Target: true}, {Value: 3}}},
		}
		out := Render(s, true, true)
		assert.Contains(t, out, ColorYellow+"  8"+ColorReset)
		assert.Contains(t, out, ColorGreen+"[3]"+ColorReset)
	})
}
