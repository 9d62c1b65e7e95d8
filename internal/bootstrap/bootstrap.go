// Package bootstrap turns loaded configuration into the pieces the binaries
// share: logging, the engine template and the leaderboard.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard/sqlite"
)

// SetupLogging configures the global zerolog logger. APP_ENV=production
// switches to JSON output.
func SetupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}

// GameTemplate builds the engine configuration every game starts from
func GameTemplate(c *config.Config, logger zerolog.Logger) (game.GameConfig, error) {
	pool, err := c.Game.Pool()
	if err != nil {
		return game.GameConfig{}, fmt.Errorf("game categories: %w", err)
	}
	return game.GameConfig{
		Rows:           c.Game.Grid.Rows,
		Cols:           c.Game.Grid.Cols,
		Lives:          c.Game.Lives,
		MaxAdversaries: c.Game.MaxAdversaries,
		Pool:           pool,
		Generator:      c.Game.GeneratorConfig(),
		Scorer: game.ClassicScorer{
			MunchBase: c.Game.MunchPoints,
			BonusBase: c.Game.LevelBonus,
		},
		PlayerName: c.Game.PlayerName,
		Logger:     logger,
	}, nil
}

// OpenLeaderboard opens the configured backend. The returned close function
// is never nil.
func OpenLeaderboard(c config.LeaderboardConfig, logger zerolog.Logger) (*leaderboard.Board, func() error, error) {
	nop := func() error { return nil }

	var store leaderboard.Store
	closeFn := nop
	switch c.Backend {
	case config.BackendMemory:
		store = leaderboard.NewMemoryStore()
	case config.BackendFile:
		fs, err := leaderboard.NewFileStore(c.Path, logger)
		if err != nil {
			return nil, nop, err
		}
		store = fs
	case config.BackendSQLite:
		db, err := sqlite.Open(c.Path)
		if err != nil {
			return nil, nop, err
		}
		store = db
		closeFn = db.Close
	default:
		return nil, nop, fmt.Errorf("unknown leaderboard backend %q", c.Backend)
	}

	logger.Info().Str("backend", c.Backend).Str("path", c.Path).Int("size", c.Size).Msg("Leaderboard ready")
	return leaderboard.NewBoard(store, c.Size, logger), closeFn, nil
}
