package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
)

// BoardFromValues builds a row-major board, flagging targets with the
// category exactly like the generator does
func BoardFromValues(t *testing.T, rows, cols int, category rules.Category, values []int) *core.Board {
	t.Helper()
	cells := make([]core.Cell, len(values))
	for i, v := range values {
		cells[i] = core.Cell{Value: v, Target: rules.Matches(category, v)}
	}
	b, err := core.NewBoardFromCells(rows, cols, cells)
	if err != nil {
		t.Fatalf("build board: %v", err)
	}
	return b
}

// CountTargets returns how many cells of b are targets
func CountTargets(b *core.Board) int {
	n := 0
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			if b.IsTarget(core.Position{Row: row, Col: col}) {
				n++
			}
		}
	}
	return n
}
