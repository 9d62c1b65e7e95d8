package game

import "context"

// Listener receives the outcome notifications a UI reacts to. Calls are
// made synchronously from inside the command that caused them, after the
// engine state has settled.
type Listener interface {
	OnIncorrectMunch()
	OnLevelComplete(bonus int)
	OnPlayerCaught()
	OnGameOver(finalScore, finalLevel int)
}

// Callbacks adapts plain functions to Listener. Nil entries are skipped.
type Callbacks struct {
	IncorrectMunch func()
	LevelComplete  func(bonus int)
	PlayerCaught   func()
	GameOver       func(finalScore, finalLevel int)
}

var _ Listener = Callbacks{}

func (c Callbacks) OnIncorrectMunch() {
	if c.IncorrectMunch != nil {
		c.IncorrectMunch()
	}
}

func (c Callbacks) OnLevelComplete(bonus int) {
	if c.LevelComplete != nil {
		c.LevelComplete(bonus)
	}
}

func (c Callbacks) OnPlayerCaught() {
	if c.PlayerCaught != nil {
		c.PlayerCaught()
	}
}

func (c Callbacks) OnGameOver(finalScore, finalLevel int) {
	if c.GameOver != nil {
		c.GameOver(finalScore, finalLevel)
	}
}

// ScoreRecorder persists finished games, typically a leaderboard
type ScoreRecorder interface {
	Record(ctx context.Context, name string, score, level int) error
}

type nopListener struct{}

func (nopListener) OnIncorrectMunch()   {}
func (nopListener) OnLevelComplete(int) {}
func (nopListener) OnPlayerCaught()     {}
func (nopListener) OnGameOver(int, int) {}
