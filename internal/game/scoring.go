package game

// Scorer decides how many points munches and cleared levels are worth
type Scorer interface {
	// MunchPoints is awarded for a correct munch on the given level
	MunchPoints(level int) int
	// LevelBonus is awarded when the given level is cleared
	LevelBonus(level int) int
}

// ClassicScorer pays MunchBase per level for a munch and BonusBase times
// the next level for clearing a board.
type ClassicScorer struct {
	MunchBase int
	BonusBase int
}

// NewClassicScorer returns 10 points per level per munch and a 100 x next level bonus
func NewClassicScorer() ClassicScorer {
	return ClassicScorer{MunchBase: 10, BonusBase: 100}
}

func (s ClassicScorer) MunchPoints(level int) int {
	return s.MunchBase * level
}

func (s ClassicScorer) LevelBonus(level int) int {
	return s.BonusBase * (level + 1)
}
