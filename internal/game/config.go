package game

import (
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/gridgen"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/rs/zerolog"
)

// Defaults for a classic session
const (
	DefaultRows           = 5
	DefaultCols           = 5
	DefaultLives          = 3
	DefaultMaxAdversaries = 3
	DefaultPlayerName     = "Player"
	DefaultRecordTimeout  = 2 * time.Second
)

// GameConfig configures an Engine. Zero values fall back to the defaults.
type GameConfig struct {
	SessionID      string
	Rows           int
	Cols           int
	Lives          int
	MaxAdversaries int
	Pool           []rules.Category
	Generator      gridgen.Config

	Scorer   Scorer
	Listener Listener
	Recorder ScoreRecorder

	// PlayerName is the leaderboard name results are recorded under
	PlayerName    string
	RecordTimeout time.Duration

	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus
}
