package core

import (
	"fmt"
	"sort"
)

// Cell is a single numbered square. Target records whether Value
// satisfied the level's category when the board was generated.
type Cell struct {
	Value  int
	Target bool
}

// MunchOutcome is the result of munching a cell
type MunchOutcome int

const (
	// MunchIgnored means the command had no effect (wrong phase, off grid)
	MunchIgnored MunchOutcome = iota
	MunchCorrect
	MunchIncorrect
	MunchAlreadyMunched
)

func (o MunchOutcome) String() string {
	switch o {
	case MunchIgnored:
		return "ignored"
	case MunchCorrect:
		return "correct"
	case MunchIncorrect:
		return "incorrect"
	case MunchAlreadyMunched:
		return "already_munched"
	default:
		return fmt.Sprintf("MunchOutcome(%d)", int(o))
	}
}

// Board holds one level's grid plus the munched and remaining-target sets.
// A position is never in both sets; their union over targets is every
// cell with Target set.
type Board struct {
	Rows, Cols int
	Cells      []Cell // length = Rows*Cols (row-major)

	munched   map[Position]struct{}
	remaining map[Position]struct{}
}

// NewBoard returns an all-zero, target-free board
func NewBoard(rows, cols int) *Board {
	return &Board{
		Rows:      rows,
		Cols:      cols,
		Cells:     make([]Cell, rows*cols),
		munched:   make(map[Position]struct{}),
		remaining: make(map[Position]struct{}),
	}
}

// NewBoardFromCells builds a board from row-major cells
func NewBoardFromCells(rows, cols int, cells []Cell) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, rows, cols)
	}
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrInvalidGridSize, len(cells), rows, cols)
	}
	b := NewBoard(rows, cols)
	for i, c := range cells {
		b.SetCell(b.PosOf(i), c)
	}
	return b, nil
}

func (b *Board) Idx(p Position) int     { return p.Row*b.Cols + p.Col }
func (b *Board) PosOf(idx int) Position { return Position{Row: idx / b.Cols, Col: idx % b.Cols} }

// InBounds checks if the position lies on the board
func (b *Board) InBounds(p Position) bool {
	return p.IsValid(b.Rows, b.Cols)
}

// Center is the player's spawn cell
func (b *Board) Center() Position {
	return Position{Row: b.Rows / 2, Col: b.Cols / 2}
}

// Cell safely returns the cell at p
func (b *Board) Cell(p Position) (Cell, bool) {
	if !b.InBounds(p) {
		return Cell{}, false
	}
	return b.Cells[b.Idx(p)], true
}

// SetCell overwrites a cell during generation and keeps the remaining set
// in sync. Munched state at p is cleared.
func (b *Board) SetCell(p Position, c Cell) {
	if !b.InBounds(p) {
		return
	}
	b.Cells[b.Idx(p)] = c
	delete(b.munched, p)
	if c.Target {
		b.remaining[p] = struct{}{}
	} else {
		delete(b.remaining, p)
	}
}

// Munch selects the cell at p
func (b *Board) Munch(p Position) MunchOutcome {
	if !b.InBounds(p) {
		return MunchIgnored
	}
	if _, ok := b.munched[p]; ok {
		return MunchAlreadyMunched
	}
	if _, ok := b.remaining[p]; !ok {
		return MunchIncorrect
	}
	delete(b.remaining, p)
	b.munched[p] = struct{}{}
	return MunchCorrect
}

// IsComplete reports whether every target has been munched
func (b *Board) IsComplete() bool { return len(b.remaining) == 0 }

func (b *Board) IsMunched(p Position) bool {
	_, ok := b.munched[p]
	return ok
}

func (b *Board) IsRemaining(p Position) bool {
	_, ok := b.remaining[p]
	return ok
}

// IsTarget reports the generation-time target flag at p
func (b *Board) IsTarget(p Position) bool {
	c, ok := b.Cell(p)
	return ok && c.Target
}

func (b *Board) RemainingCount() int { return len(b.remaining) }
func (b *Board) MunchedCount() int   { return len(b.munched) }

// TargetCount counts cells flagged as targets at generation time
func (b *Board) TargetCount() int {
	n := 0
	for _, c := range b.Cells {
		if c.Target {
			n++
		}
	}
	return n
}

// Remaining returns the remaining target positions in row-major order
func (b *Board) Remaining() []Position {
	out := make([]Position, 0, len(b.remaining))
	for p := range b.remaining {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return b.Idx(out[i]) < b.Idx(out[j]) })
	return out
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	c := NewBoard(b.Rows, b.Cols)
	copy(c.Cells, b.Cells)
	for p := range b.munched {
		c.munched[p] = struct{}{}
	}
	for p := range b.remaining {
		c.remaining[p] = struct{}{}
	}
	return c
}
