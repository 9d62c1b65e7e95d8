package core

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
)

// Position is a (row, col) cell address on the grid
type Position struct {
	Row, Col int
}

// NewPosition creates a new position with the given row and column
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// IsValid checks if the position is within a rows x cols grid
func (p Position) IsValid(rows, cols int) bool {
	return common.IsValidCoordinate(p.Row, p.Col, rows, cols)
}

// DistanceTo calculates the Manhattan distance to another position
func (p Position) DistanceTo(other Position) int {
	return common.ManhattanDistance(p.Row, p.Col, other.Row, other.Col)
}

// Add returns the position offset by dRow, dCol
func (p Position) Add(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Clamp pulls the position back inside a rows x cols grid
func (p Position) Clamp(rows, cols int) Position {
	return Position{
		Row: common.Clamp(p.Row, 0, rows-1),
		Col: common.Clamp(p.Col, 0, cols-1),
	}
}

// Equal checks if two positions are equal
func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four player move directions
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// DirectionVectors provides (dRow, dCol) offsets for each direction
var DirectionVectors = map[Direction]Position{
	Up:    {Row: -1, Col: 0},
	Right: {Row: 0, Col: 1},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
}

// Delta returns the row and column offset of the direction
func (d Direction) Delta() (int, int) {
	v, ok := DirectionVectors[d]
	if !ok {
		return 0, 0
	}
	return v.Row, v.Col
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts "up", "right", "down" or "left" to a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "north":
		return Up, nil
	case "right", "east":
		return Right, nil
	case "down", "south":
		return Down, nil
	case "left", "west":
		return Left, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}
