package game

import "time"

// Stats counts what happened during one game
type Stats struct {
	CorrectMunches   int
	IncorrectMunches int
	TimesCaught      int
	Moves            int
	Ticks            int
	LevelsCompleted  int
	StartedAt        time.Time
}

// Accuracy is the share of munches that were correct, 0 with no munches
func (s Stats) Accuracy() float64 {
	total := s.CorrectMunches + s.IncorrectMunches
	if total == 0 {
		return 0
	}
	return float64(s.CorrectMunches) / float64(total)
}
