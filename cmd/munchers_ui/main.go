package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/mitchelldurbincs/NumberMunchers/internal/bootstrap"
	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"github.com/mitchelldurbincs/NumberMunchers/internal/ui"
)

var flagKeys = map[string]string{
	"player-name":         "game.player_name",
	"tick-interval-ms":    "ui.game.tick_interval_ms",
	"reveal-targets":      "development.reveal_targets",
	"leaderboard-backend": "leaderboard.backend",
	"leaderboard-path":    "leaderboard.path",
}

func main() {
	fs := pflag.NewFlagSet("munchers_ui", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	seed := fs.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	fs.String("player-name", "", "Name recorded on the leaderboard")
	fs.Int("tick-interval-ms", 0, "Adversary clock interval in milliseconds")
	fs.Bool("reveal-targets", false, "Highlight target cells")
	fs.String("leaderboard-backend", "", "Leaderboard backend (memory, file, sqlite)")
	fs.String("leaderboard-path", "", "Leaderboard file or database path")
	_ = fs.Parse(os.Args[1:])

	bootstrap.SetupLogging(*logLevel)
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.BindFlags(fs, flagKeys); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply flags")
	}
	cfg := config.Get()
	logger := log.Logger

	board, closeBoard, err := bootstrap.OpenLeaderboard(cfg.Leaderboard, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open leaderboard")
	}
	defer closeBoard()

	template, err := bootstrap.GameTemplate(cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid game config")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	template.Rng = rand.New(rand.NewSource(*seed))
	template.Recorder = board

	ctx := context.Background()
	uiGame, err := ui.NewMunchersGame(ctx, template, ui.Options{
		RevealTargets: cfg.Development.RevealTargets,
		HighScores: func() string {
			entries, err := board.Top(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to load high scores")
				return ""
			}
			return leaderboard.Format(entries)
		},
		Logger: logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil && !ui.IsTermination(err) {
		log.Fatal().Err(err).Msg("Game loop failed")
	}
}
