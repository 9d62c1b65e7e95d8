package game

import (
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
)

// Result is the frozen outcome of a finished game
type Result struct {
	SessionID string
	Score     int
	Level     int
	Category  string
	Stats     Stats
}

// CellView is a read-only cell for rendering. Target is exposed for
// tooling and debugging; player-facing UIs must not reveal it.
type CellView struct {
	Value   int
	Munched bool
	Target  bool
}

// Snapshot is a read-only copy of everything a UI draws
type Snapshot struct {
	SessionID        string
	Phase            states.SessionPhase
	Score            int
	Lives            int
	Level            int
	Category         string
	Rows             int
	Cols             int
	Player           core.Position
	Adversaries      []core.Position
	RemainingTargets int
	Grid             [][]CellView // nil before the first game
	Result           *Result      // last finished game, if any
}

// Snapshot copies the current session state
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:   e.sessionID,
		Phase:       e.Phase(),
		Score:       e.score,
		Lives:       e.lives,
		Level:       e.level,
		Rows:        e.config.Rows,
		Cols:        e.config.Cols,
		Player:      e.player,
		Adversaries: e.Adversaries(),
	}
	if e.board != nil {
		snap.Category = e.category.Name()
		snap.RemainingTargets = e.board.RemainingCount()
		snap.Grid = make([][]CellView, e.board.Rows)
		for row := 0; row < e.board.Rows; row++ {
			snap.Grid[row] = make([]CellView, e.board.Cols)
			for col := 0; col < e.board.Cols; col++ {
				p := core.Position{Row: row, Col: col}
				cell, _ := e.board.Cell(p)
				snap.Grid[row][col] = CellView{
					Value:   cell.Value,
					Munched: e.board.IsMunched(p),
					Target:  cell.Target,
				}
			}
		}
	}
	if e.result != nil {
		r := *e.result
		snap.Result = &r
	}
	return snap
}

// HasAdversaryAt reports whether an adversary occupies p
func (s Snapshot) HasAdversaryAt(p core.Position) bool {
	for _, a := range s.Adversaries {
		if a.Equal(p) {
			return true
		}
	}
	return false
}
