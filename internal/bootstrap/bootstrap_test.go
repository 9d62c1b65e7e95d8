package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	require.NoError(t, config.Init(""))
	c := *config.Get()
	return &c
}

func TestGameTemplate(t *testing.T) {
	c := testConfig(t)
	c.Game.MunchPoints = 5
	c.Game.LevelBonus = 50

	tmpl, err := GameTemplate(c, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, c.Game.Grid.Rows, tmpl.Rows)
	assert.Equal(t, c.Game.Grid.Cols, tmpl.Cols)
	assert.Equal(t, c.Game.Lives, tmpl.Lives)
	assert.Len(t, tmpl.Pool, len(c.Game.Categories))
	assert.Equal(t, game.ClassicScorer{MunchBase: 5, BonusBase: 50}, tmpl.Scorer)
	assert.Equal(t, c.Game.TargetDensity, tmpl.Generator.TargetDensity)
}

func TestGameTemplateRejectsBadCategory(t *testing.T) {
	c := testConfig(t)
	c.Game.Categories = []string{"squares"}

	_, err := GameTemplate(c, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenLeaderboard(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.LeaderboardConfig
		wantErr bool
	}{
		{"memory", config.LeaderboardConfig{Backend: config.BackendMemory, Size: 10}, false},
		{"file", config.LeaderboardConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "scores.json"), Size: 10}, false},
		{"sqlite", config.LeaderboardConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "scores.db"), Size: 10}, false},
		{"file without path", config.LeaderboardConfig{Backend: config.BackendFile, Size: 10}, true},
		{"unknown", config.LeaderboardConfig{Backend: "redis", Size: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, closeFn, err := OpenLeaderboard(tt.cfg, zerolog.Nop())
			require.NotNil(t, closeFn)
			defer func() { assert.NoError(t, closeFn()) }()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			ctx := context.Background()
			require.NoError(t, board.Record(ctx, "ada", 120, 2))
			top, err := board.Top(ctx)
			require.NoError(t, err)
			require.Len(t, top, 1)
			assert.Equal(t, 120, top[0].Score)
		})
	}
}
